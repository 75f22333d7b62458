package voronoi

import (
	"fmt"
	"math"

	"github.com/0x0FACED/go-trendlines/pkg/logger"
	"go.uber.org/zap"
)

// Основная структура
type Voronoi struct {
	// ячейки диаграммы Вороного
	cells []*Cell
	// ребра диаграммы Вороного
	edges []*Edge
	// пары соседних сайтов (двойственные ребра Делоне), по одной на каждое созданное ребро
	links [][2]int

	// мапа для быстрого доступа к ячейке по координатам (ключу)
	cellsMap map[Vertex]*Cell

	// Пляжная линия (красно-черное дерево)
	beachline rbt
	// События круга
	circleEvents rbt
	// следующее событие круга
	firstCircleEvent *circleEvent

	Logger *logger.ZapLogger
}

// Diagram is the clipped Voronoi diagram of a set of sites.
type Diagram struct {
	Cells []*Cell
	Edges []*Edge
	// Links holds the index pairs of sites whose cells share an edge, as created by the sweep.
	Links [][2]int
}

// Bounding Box
type BoundingBox struct {
	Xl, Xr, Yt, Yb float64
}

func NewBoundingBox(xl, xr, yt, yb float64) BoundingBox {
	return BoundingBox{xl, xr, yt, yb}
}

// CreateDiagram runs Fortune's sweep over sites and clips the result to bbox.
// With closeCells the open cells along the box are closed by border edges.
func CreateDiagram(sites []Vertex, bbox BoundingBox, closeCells bool, log *logger.ZapLogger) *Diagram {
	v := sweep(sites, log)

	v.clipEdges(bbox)
	log.Debug("[f] Ребра обрезаны по рамке", zap.Int("edges", len(v.edges)))

	if closeCells {
		v.closeCells(bbox)
	} else {
		for _, cell := range v.cells {
			cell.prepare()
		}
	}

	return &Diagram{Edges: v.edges, Cells: v.cells, Links: v.links}
}

// sweep is the main loop of the algorithm: site events and circle events
// are consumed in order of the sweep line until both queues are empty.
func sweep(points []Vertex, log *logger.ZapLogger) *Voronoi {
	v := &Voronoi{
		cellsMap: make(map[Vertex]*Cell, len(points)),
		Logger:   log,
	}

	sites := make([]site, len(points))
	for i, p := range points {
		sites[i] = site{Vertex: p, index: i}
	}
	sortSites(sites)

	log.Debug("[f] Алгоритм Форчуна запущен", zap.Int("sites", len(sites)))

	prevSite := Vertex{math.SmallestNonzeroFloat64, math.SmallestNonzeroFloat64}
	var iterations, duplicates int

	for {
		iterations++
		circle := v.firstCircleEvent

		// site event обрабатывается, если нет события круга или точка выше него
		if len(sites) > 0 && (circle == nil || sites[0].Y < circle.y || (sites[0].Y == circle.y && sites[0].X < circle.x)) {
			s := sites[0]
			sites = sites[1:]

			// дубликаты не дают новой ячейки
			if s.Vertex == prevSite {
				duplicates++
				continue
			}

			cell := newCell(s)
			v.cells = append(v.cells, cell)
			v.cellsMap[s.Vertex] = cell
			v.addBeachSection(s.Vertex)
			prevSite = s.Vertex
		} else if circle != nil {
			v.removeBeachSection(circle.arc)
		} else {
			break
		}
	}

	if duplicates > 0 {
		log.Warn("[f] Найдены дубликаты сайтов", zap.Int("duplicates", duplicates))
	}
	log.Debug("[f] Алгоритм завершен",
		zap.Int("iterations", iterations),
		zap.Int("cells", len(v.cells)),
		zap.Int("edges", len(v.edges)),
	)
	return v
}

func (v *Voronoi) cell(site Vertex) *Cell {
	ret := v.cellsMap[site]
	if ret == nil {
		panic(fmt.Sprintf("voronoi: no cell for site %v", site))
	}
	return ret
}

// Создание ребра между двумя ячейками
func (v *Voronoi) createEdge(leftCell, rightCell *Cell, va, vb Vertex) *Edge {
	edge := newEdge(leftCell, rightCell)
	v.edges = append(v.edges, edge)
	v.links = append(v.links, [2]int{leftCell.Index, rightCell.Index})

	if va != NO_VERTEX {
		v.setEdgeStartpoint(edge, leftCell, rightCell, va)
	}
	if vb != NO_VERTEX {
		v.setEdgeEndpoint(edge, leftCell, rightCell, vb)
	}

	leftCell.Halfedges = append(leftCell.Halfedges, newHalfedge(edge, leftCell, rightCell))
	rightCell.Halfedges = append(rightCell.Halfedges, newHalfedge(edge, rightCell, leftCell))
	return edge
}

func (v *Voronoi) createBorderEdge(leftCell *Cell, va, vb Vertex) *Edge {
	edge := newEdge(leftCell, nil)
	edge.Va = va
	edge.Vb = vb

	v.edges = append(v.edges, edge)
	return edge
}

func (v *Voronoi) setEdgeStartpoint(edge *Edge, leftCell, rightCell *Cell, vertex Vertex) {
	switch {
	case edge.Va == NO_VERTEX && edge.Vb == NO_VERTEX:
		edge.Va = vertex
		edge.LeftCell = leftCell
		edge.RightCell = rightCell
	case edge.LeftCell == rightCell:
		edge.Vb = vertex
	default:
		edge.Va = vertex
	}
}

func (v *Voronoi) setEdgeEndpoint(edge *Edge, leftCell, rightCell *Cell, vertex Vertex) {
	v.setEdgeStartpoint(edge, rightCell, leftCell, vertex)
}
