package voronoi

import (
	"math"
	"sort"
)

const epsilon = 1e-9

type Vertex struct {
	X float64
	Y float64
}

// NO_VERTEX marks an edge end that has not been fixed by the sweep yet.
var NO_VERTEX = Vertex{math.Inf(1), math.Inf(1)}

// site is an input point together with its position in the caller's slice.
type site struct {
	Vertex
	index int
}

// сортируем по Y, при равных Y по X, чтобы линия сканирования шла сверху вниз слева направо
func sortSites(sites []site) {
	sort.SliceStable(sites, func(i, j int) bool {
		if sites[i].Y != sites[j].Y {
			return sites[i].Y < sites[j].Y
		}
		return sites[i].X < sites[j].X
	})
}

type Edge struct {
	LeftCell  *Cell
	RightCell *Cell
	Va        Vertex
	Vb        Vertex
}

func newEdge(leftCell, rightCell *Cell) *Edge {
	return &Edge{
		LeftCell:  leftCell,
		RightCell: rightCell,
		Va:        NO_VERTEX,
		Vb:        NO_VERTEX,
	}
}

type Halfedge struct {
	Cell  *Cell
	Edge  *Edge
	Angle float64
}

func newHalfedge(edge *Edge, leftCell, rightCell *Cell) *Halfedge {
	ret := &Halfedge{
		Cell: leftCell,
		Edge: edge,
	}

	if rightCell != nil {
		ret.Angle = math.Atan2(rightCell.Site.Y-leftCell.Site.Y, rightCell.Site.X-leftCell.Site.X)
		return ret
	}

	// граничное ребро: угол считаем по самому отрезку
	va := edge.Va
	vb := edge.Vb
	if edge.LeftCell == leftCell {
		ret.Angle = math.Atan2(vb.X-va.X, va.Y-vb.Y)
	} else {
		ret.Angle = math.Atan2(va.X-vb.X, vb.Y-va.Y)
	}
	return ret
}

func (h *Halfedge) startPoint() Vertex {
	if h.Edge.LeftCell == h.Cell {
		return h.Edge.Va
	}
	return h.Edge.Vb
}

func (h *Halfedge) endPoint() Vertex {
	if h.Edge.LeftCell == h.Cell {
		return h.Edge.Vb
	}
	return h.Edge.Va
}

func equalWithEpsilon(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func lessThanWithEpsilon(a, b float64) bool {
	return b-a > epsilon
}

func greaterThanWithEpsilon(a, b float64) bool {
	return a-b > epsilon
}
