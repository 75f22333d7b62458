package voronoi

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/0x0FACED/go-trendlines/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridSites(rows, cols int, step float64) []Vertex {
	sites := make([]Vertex, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			sites = append(sites, Vertex{X: step/2 + float64(j)*step, Y: step/2 + float64(i)*step})
		}
	}
	return sites
}

func TestCreateDiagramGrid(t *testing.T) {
	sites := gridSites(3, 4, 100)
	bbox := NewBoundingBox(0, 400, 0, 300)

	d := CreateDiagram(sites, bbox, false, logger.Nop())

	require.Len(t, d.Cells, len(sites))
	require.NotEmpty(t, d.Edges)
	for _, e := range d.Edges {
		for _, p := range []Vertex{e.Va, e.Vb} {
			assert.GreaterOrEqual(t, p.X, bbox.Xl-1e-6)
			assert.LessOrEqual(t, p.X, bbox.Xr+1e-6)
			assert.GreaterOrEqual(t, p.Y, bbox.Yt-1e-6)
			assert.LessOrEqual(t, p.Y, bbox.Yb+1e-6)
		}
	}

	indices := make(map[int]bool)
	for _, c := range d.Cells {
		indices[c.Index] = true
	}
	assert.Len(t, indices, len(sites))
}

func TestCreateDiagramCloseCells(t *testing.T) {
	sites := []Vertex{{10, 10}, {30, 12}, {20, 30}}
	bbox := NewBoundingBox(0, 40, 0, 40)

	open := CreateDiagram(sites, bbox, false, logger.Nop())
	closed := CreateDiagram(sites, bbox, true, logger.Nop())

	assert.Greater(t, len(closed.Edges), len(open.Edges))
	for _, c := range closed.Cells {
		assert.GreaterOrEqual(t, len(c.Halfedges), 3, "closed cell around %v", c.Site)
	}
}

func TestCreateDiagramDuplicates(t *testing.T) {
	sites := []Vertex{{1, 1}, {5, 5}, {1, 1}}
	d := CreateDiagram(sites, NewBoundingBox(0, 10, 0, 10), false, logger.Nop())
	assert.Len(t, d.Cells, 2)
}

func TestTriangulateSmall(t *testing.T) {
	tri := NewTriangulator(logger.Nop())

	edges, err := tri.Triangulate(nil)
	require.NoError(t, err)
	assert.Empty(t, edges)

	edges, err = tri.Triangulate([][2]float64{{0, 0}})
	require.NoError(t, err)
	assert.Empty(t, edges)

	edges, err = tri.Triangulate([][2]float64{{0, 0}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 1}}, edges)

	edges, err = tri.Triangulate([][2]float64{{0, 0}, {4, 0}, {1, 3}})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 1}, {0, 2}, {1, 2}}, edges)
}

func TestTriangulateCollinear(t *testing.T) {
	tri := NewTriangulator(logger.Nop())
	points := [][2]float64{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}}

	edges, err := tri.Triangulate(points)
	require.NoError(t, err)

	set := edgeSet(edges)
	for i := 0; i+1 < len(points); i++ {
		assert.True(t, set[[2]int{i, i + 1}], "missing consecutive edge %d-%d", i, i+1)
	}
}

func TestTriangulateCoincident(t *testing.T) {
	tri := NewTriangulator(logger.Nop())
	points := [][2]float64{{0, 0}, {0, 0}, {1, 1}}

	edges, err := tri.Triangulate(points)
	require.NoError(t, err)
	assert.True(t, edgeSet(edges)[[2]int{0, 1}], "coincident points are joggled apart and stay connected")
}

func TestTriangulateSquareHasOneDiagonal(t *testing.T) {
	tri := NewTriangulator(logger.Nop())
	points := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	edges, err := tri.Triangulate(points)
	require.NoError(t, err)

	set := edgeSet(edges)
	for _, side := range [][2]int{{0, 1}, {1, 2}, {2, 3}, {0, 3}} {
		assert.True(t, set[side], "missing side %v", side)
	}
	diagonals := 0
	if set[[2]int{0, 2}] {
		diagonals++
	}
	if set[[2]int{1, 3}] {
		diagonals++
	}
	assert.Equal(t, 1, diagonals)
}

func TestTriangulateDeterministic(t *testing.T) {
	points := randomPoints(60, 7)
	a, err := NewTriangulator(logger.Nop()).Triangulate(points)
	require.NoError(t, err)
	b, err := NewTriangulator(logger.Nop()).Triangulate(points)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTriangulateMatchesEmptyCircle(t *testing.T) {
	points := randomPoints(25, 42)
	tri := &Triangulator{Joggle: 1e-12, Seed: 1, Logger: logger.Nop()}

	edges, err := tri.Triangulate(points)
	require.NoError(t, err)

	assert.Equal(t, bruteForceDelaunay(points), edges)
}

func TestBounds(t *testing.T) {
	box := Bounds([]Vertex{{1, 2}, {5, -1}}, 1)
	assert.Equal(t, NewBoundingBox(0, 6, -2, 3), box)
}

func randomPoints(n int, seed int64) [][2]float64 {
	rnd := rand.New(rand.NewSource(seed))
	points := make([][2]float64, n)
	for i := range points {
		points[i] = [2]float64{rnd.Float64() * 100, rnd.Float64() * 100}
	}
	return points
}

func edgeSet(edges [][2]int) map[[2]int]bool {
	set := make(map[[2]int]bool, len(edges))
	for _, e := range edges {
		set[e] = true
	}
	return set
}

// bruteForceDelaunay keeps the edges of every triangle whose circumcircle holds no other point.
func bruteForceDelaunay(points [][2]float64) [][2]int {
	set := make(map[[2]int]bool)
	n := len(points)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				cx, cy, r2, ok := circumcircle(points[i], points[j], points[k])
				if !ok {
					continue
				}
				empty := true
				for m := 0; m < n && empty; m++ {
					if m == i || m == j || m == k {
						continue
					}
					dx, dy := points[m][0]-cx, points[m][1]-cy
					if dx*dx+dy*dy < r2 {
						empty = false
					}
				}
				if empty {
					set[[2]int{i, j}] = true
					set[[2]int{j, k}] = true
					set[[2]int{i, k}] = true
				}
			}
		}
	}

	edges := make([][2]int, 0, len(set))
	for e := range set {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(a, b int) bool {
		if edges[a][0] != edges[b][0] {
			return edges[a][0] < edges[b][0]
		}
		return edges[a][1] < edges[b][1]
	})
	return edges
}

func circumcircle(a, b, c [2]float64) (x, y, r2 float64, ok bool) {
	d := 2 * (a[0]*(b[1]-c[1]) + b[0]*(c[1]-a[1]) + c[0]*(a[1]-b[1]))
	if math.Abs(d) < 1e-12 {
		return 0, 0, 0, false
	}
	a2 := a[0]*a[0] + a[1]*a[1]
	b2 := b[0]*b[0] + b[1]*b[1]
	c2 := c[0]*c[0] + c[1]*c[1]
	x = (a2*(b[1]-c[1]) + b2*(c[1]-a[1]) + c2*(a[1]-b[1])) / d
	y = (a2*(c[0]-b[0]) + b2*(a[0]-c[0]) + c2*(b[0]-a[0])) / d
	dx, dy := a[0]-x, a[1]-y
	return x, y, dx*dx + dy*dy, true
}
