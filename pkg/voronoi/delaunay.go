package voronoi

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/0x0FACED/go-trendlines/pkg/logger"
	"go.uber.org/zap"
)

// DefaultJoggle is the perturbation applied to every coordinate, relative to the extent of the input.
const DefaultJoggle = 1e-6

// ErrDegenerate is returned when the sweep cannot process the input even after joggling.
var ErrDegenerate = errors.New("voronoi: sweep failed on degenerate input")

// Triangulator derives Delaunay edges from the Voronoi diagram: two sites are
// Delaunay neighbours exactly when their cells share an edge.
//
// The sites are joggled before the sweep. Collinear, gridded and repeated
// points are common in survey data and break ties the sweep cannot resolve;
// a small seeded perturbation resolves them the same way on every run.
type Triangulator struct {
	// Joggle is relative to the larger side of the bounding box. Zero means DefaultJoggle.
	Joggle float64
	Seed   int64
	Logger *logger.ZapLogger
}

func NewTriangulator(log *logger.ZapLogger) *Triangulator {
	return &Triangulator{Joggle: DefaultJoggle, Seed: 1, Logger: log}
}

// Triangulate returns the unique Delaunay edges of points as index pairs with
// the smaller index first, sorted. Fewer than two points give no edges.
func (t *Triangulator) Triangulate(points [][2]float64) (edges [][2]int, err error) {
	if len(points) < 2 {
		return nil, nil
	}

	log := t.Logger
	if log == nil {
		log = logger.Nop()
	}

	defer func() {
		if r := recover(); r != nil {
			edges = nil
			err = fmt.Errorf("%w: %v", ErrDegenerate, r)
		}
	}()

	sites := t.joggle(points)
	v := sweep(sites, log)

	seen := make(map[[2]int]struct{}, len(v.links))
	for _, link := range v.links {
		a, b := link[0], link[1]
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		key := [2]int{a, b}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		edges = append(edges, key)
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})

	log.Debug("[delaunay] Триангуляция построена", zap.Int("points", len(points)), zap.Int("edges", len(edges)))
	return edges, nil
}

func (t *Triangulator) joggle(points [][2]float64) []Vertex {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p[0])
		maxX = math.Max(maxX, p[0])
		minY = math.Min(minY, p[1])
		maxY = math.Max(maxY, p[1])
	}

	extent := math.Max(maxX-minX, maxY-minY)
	if extent == 0 {
		extent = math.Max(1, math.Max(math.Abs(maxX), math.Abs(maxY)))
	}

	rel := t.Joggle
	if rel <= 0 {
		rel = DefaultJoggle
	}
	amount := rel * extent

	rnd := rand.New(rand.NewSource(t.Seed))
	sites := make([]Vertex, len(points))
	for i, p := range points {
		sites[i] = Vertex{
			X: p[0] + (rnd.Float64()*2-1)*amount,
			Y: p[1] + (rnd.Float64()*2-1)*amount,
		}
	}
	return sites
}

// Bounds returns a box around sites, padded by pad on every side.
func Bounds(sites []Vertex, pad float64) BoundingBox {
	if len(sites) == 0 {
		return NewBoundingBox(-pad, pad, -pad, pad)
	}
	box := NewBoundingBox(sites[0].X, sites[0].X, sites[0].Y, sites[0].Y)
	for _, s := range sites[1:] {
		box.Xl = math.Min(box.Xl, s.X)
		box.Xr = math.Max(box.Xr, s.X)
		box.Yt = math.Min(box.Yt, s.Y)
		box.Yb = math.Max(box.Yb, s.Y)
	}
	box.Xl -= pad
	box.Xr += pad
	box.Yt -= pad
	box.Yb += pad
	return box
}
