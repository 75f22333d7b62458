package trend_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/0x0FACED/go-trendlines/pkg/logger"
	"github.com/0x0FACED/go-trendlines/pkg/trend"
	"github.com/0x0FACED/go-trendlines/pkg/voronoi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDetector(opts ...trend.Option) *trend.Detector {
	return trend.NewDetector(voronoi.NewTriangulator(logger.Nop()), opts...)
}

func ptr(v float64) *float64 { return &v }

func line(x0, y0, dx, dy float64, n int) []trend.Point {
	pts := make([]trend.Point, n)
	for i := range pts {
		pts[i] = trend.Point{X: x0 + float64(i)*dx, Y: y0 + float64(i)*dy}
	}
	return pts
}

func repeat(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// completeGraph hands every pair of points to the walker, so tests control candidates by geometry alone.
type completeGraph struct{}

func (completeGraph) Triangulate(points [][2]float64) ([][2]int, error) {
	var edges [][2]int
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			edges = append(edges, [2]int{j, i})
		}
	}
	return edges, nil
}

// failingTriangulator fails for groups of exactly size points.
type failingTriangulator struct {
	size int
	next trend.Triangulator
}

func (f failingTriangulator) Triangulate(points [][2]float64) ([][2]int, error) {
	if len(points) == f.size {
		return nil, errors.New("qhull exploded")
	}
	return f.next.Triangulate(points)
}

func TestDetectStraightLine(t *testing.T) {
	in := trend.Input{Points: line(0, 0, 1, 0, 4), Labels: repeat(1, 4)}

	res, err := newDetector().Detect(context.Background(), in, trend.Params{MinEdges: 1})
	require.NoError(t, err)
	require.True(t, res.Found())

	assert.Equal(t, in.Points, res.Vertices)
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}, {2, 3}}, res.Cells)
	assert.Equal(t, []int{1, 1, 1, 1}, res.Labels)
	require.Len(t, res.Polylines, 1)
	assert.Equal(t, 3, res.Polylines[0].Edges())
}

func TestDetectTwoGroups(t *testing.T) {
	points := append(line(0, 0, 1, 0, 3), line(100, 0, 1, 0, 3)...)
	labels := append(repeat(1, 3), repeat(2, 3)...)

	res, err := newDetector().Detect(context.Background(),
		trend.Input{Points: points, Labels: labels},
		trend.Params{MaxDistance: ptr(5), MinEdges: 1},
	)
	require.NoError(t, err)

	require.Len(t, res.Polylines, 2)
	for i, pl := range res.Polylines {
		assert.Len(t, pl.Vertices, 3)
		assert.Equal(t, 2, pl.Edges())
		assert.Equal(t, i+1, pl.Label)
	}
	assert.Equal(t, []int{1, 1, 1, 2, 2, 2}, res.Labels)
	assert.Len(t, res.Cells, 4)
}

func TestDetectAzimuthRejectsEverything(t *testing.T) {
	// east-west line, filter keeps only north-south edges
	in := trend.Input{Points: line(0, 0, 1, 0.01, 10), Labels: repeat(1, 10)}

	res, err := newDetector().Detect(context.Background(), in, trend.Params{
		Azimuth:    ptr(0),
		AzimuthTol: ptr(10),
		MinEdges:   1,
	})
	require.NoError(t, err)
	assert.False(t, res.Found())
	assert.Empty(t, res.Vertices)
	assert.Empty(t, res.Polylines)
}

func TestDetectTwoPoints(t *testing.T) {
	in := trend.Input{Points: line(0, 0, 1, 1, 2), Labels: []int{3, 3}}

	res, err := newDetector().Detect(context.Background(), in, trend.Params{MaxDistance: ptr(2), MinEdges: 1})
	require.NoError(t, err)
	require.Len(t, res.Polylines, 1)
	assert.Equal(t, 1, res.Polylines[0].Edges())
	assert.Equal(t, []int{3, 3}, res.Labels)

	res, err = newDetector().Detect(context.Background(), in, trend.Params{MaxDistance: ptr(2), MinEdges: 2})
	require.NoError(t, err)
	assert.False(t, res.Found())
	assert.Equal(t, 1, res.Groups[0].Rejected)
}

func TestDetectInvalidDamping(t *testing.T) {
	in := trend.Input{Points: line(0, 0, 1, 0, 4), Labels: repeat(1, 4)}
	for _, damping := range []float64{-0.1, 1.01, math.NaN()} {
		_, err := newDetector().Detect(context.Background(), in, trend.Params{Damping: damping})
		assert.ErrorIs(t, err, trend.ErrInvalidDamping, "damping %v", damping)
	}
}

func TestDetectInputShape(t *testing.T) {
	_, err := newDetector().Detect(context.Background(),
		trend.Input{Points: line(0, 0, 1, 0, 3), Labels: []int{1, 1}}, trend.Params{})
	assert.ErrorIs(t, err, trend.ErrLabelMismatch)

	_, err = newDetector().Detect(context.Background(),
		trend.Input{Points: line(0, 0, 1, 0, 3), Labels: []int{1, 1, 1}, Parts: []int{1}}, trend.Params{})
	assert.ErrorIs(t, err, trend.ErrPartMismatch)
}

func TestDetectSkipsUngroupedAndSingletons(t *testing.T) {
	points := append(line(0, 0, 1, 0, 4), trend.Point{X: 50, Y: 50})
	labels := []int{0, 0, 0, 0, 7}

	res, err := newDetector().Detect(context.Background(), trend.Input{Points: points, Labels: labels}, trend.Params{})
	require.NoError(t, err)
	assert.False(t, res.Found())
	require.Len(t, res.Groups, 1)
	assert.Equal(t, 7, res.Groups[0].Label)
	assert.NotEmpty(t, res.Groups[0].Skipped)
}

func TestDetectTriangulationFailureSkipsGroup(t *testing.T) {
	points := append(line(0, 0, 1, 0, 3), line(0, 10, 1, 0, 4)...)
	labels := append(repeat(1, 3), repeat(2, 4)...)
	tri := failingTriangulator{size: 3, next: voronoi.NewTriangulator(logger.Nop())}

	res, err := trend.NewDetector(tri).Detect(context.Background(), trend.Input{Points: points, Labels: labels}, trend.Params{})
	require.NoError(t, err)

	require.Len(t, res.Groups, 2)
	assert.Contains(t, res.Groups[0].Skipped, "no triangulation")
	require.Len(t, res.Polylines, 1)
	assert.Equal(t, 2, res.Polylines[0].Label)
	assert.Equal(t, []int{3, 4, 5, 6}, res.Source)
}

func TestDetectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := trend.Input{Points: line(0, 0, 1, 0, 4), Labels: repeat(1, 4)}
	_, err := newDetector().Detect(ctx, in, trend.Params{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectPartsAreBridged(t *testing.T) {
	// two digitized segments side by side; trend lines must jump between them
	points := []trend.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	parts := []int{1, 1, 2, 2}

	res, err := trend.NewDetector(completeGraph{}).Detect(context.Background(),
		trend.Input{Points: points, Labels: repeat(1, 4), Parts: parts}, trend.Params{})
	require.NoError(t, err)
	require.True(t, res.Found())

	for _, c := range res.Cells {
		a, b := res.Source[c[0]], res.Source[c[1]]
		assert.NotEqual(t, parts[a], parts[b], "cell %v stays inside one part", c)
	}
}

func TestDetectWorkersAgree(t *testing.T) {
	in := randomInput(400, 5, 11)
	params := trend.Params{MaxDistance: ptr(15), Damping: 0.3, MinEdges: 2}

	serial, err := newDetector().Detect(context.Background(), in, params)
	require.NoError(t, err)
	parallel, err := newDetector(trend.WithWorkers(4)).Detect(context.Background(), in, params)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestDetectInvariants(t *testing.T) {
	in := randomInput(500, 4, 3)

	for _, params := range []trend.Params{
		{},
		{Damping: 0.5, MinEdges: 3},
		{Damping: 1, MaxDistance: ptr(10)},
		{Azimuth: ptr(45), AzimuthTol: ptr(30), MinEdges: 2},
	} {
		res, err := newDetector().Detect(context.Background(), in, params)
		require.NoError(t, err)

		m := len(res.Vertices)
		require.Len(t, res.Labels, m)
		require.Len(t, res.Source, m)

		degree := make([]int, m)
		for _, c := range res.Cells {
			assert.NotEqual(t, c[0], c[1])
			assert.True(t, c[0] >= 0 && c[0] < m && c[1] >= 0 && c[1] < m, "cell %v out of range", c)
			assert.Equal(t, res.Labels[c[0]], res.Labels[c[1]])
			degree[c[0]]++
			degree[c[1]]++
		}
		for v, d := range degree {
			assert.LessOrEqual(t, d, 2, "vertex %d branches", v)
		}

		owner := make(map[int]int)
		for i, pl := range res.Polylines {
			assert.GreaterOrEqual(t, pl.Edges(), max(params.MinEdges, 1))
			for _, v := range pl.Vertices {
				prev, seen := owner[v]
				assert.False(t, seen, "vertex %d shared by polylines %d and %d", v, prev, i)
				owner[v] = i
				assert.Equal(t, pl.Label, res.Labels[v])
			}
		}

		for i, src := range res.Source {
			assert.Equal(t, in.Points[src], res.Vertices[i])
			assert.Equal(t, in.Labels[src], res.Labels[i])
			if i > 0 {
				assert.Less(t, res.Source[i-1], src)
			}
		}
	}
}

func TestDetectIdempotent(t *testing.T) {
	in := randomInput(300, 3, 5)
	params := trend.Params{Damping: 0.2, MaxDistance: ptr(20)}

	first, err := newDetector().Detect(context.Background(), in, params)
	require.NoError(t, err)
	second, err := newDetector().Detect(context.Background(), in, params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDetectMonotonicInMinEdges(t *testing.T) {
	in := randomInput(300, 3, 9)

	prev := -1
	for _, minEdges := range []int{5, 4, 3, 2, 1} {
		res, err := newDetector().Detect(context.Background(), in, trend.Params{MinEdges: minEdges})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(res.Polylines), prev, "min edges %d", minEdges)
		prev = len(res.Polylines)
	}
}

func randomInput(n, labels int, seed int64) trend.Input {
	rnd := rand.New(rand.NewSource(seed))
	in := trend.Input{Points: make([]trend.Point, n), Labels: make([]int, n)}
	for i := range in.Points {
		in.Points[i] = trend.Point{X: rnd.Float64() * 100, Y: rnd.Float64() * 100, Z: rnd.Float64()}
		in.Labels[i] = rnd.Intn(labels + 1)
	}
	return in
}
