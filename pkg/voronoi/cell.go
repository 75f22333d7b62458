package voronoi

import "sort"

// Cell is the Voronoi region of one input site.
type Cell struct {
	Site Vertex
	// Index is the position of the site in the slice passed to CreateDiagram.
	Index     int
	Halfedges []*Halfedge
}

func newCell(s site) *Cell {
	return &Cell{Site: s.Vertex, Index: s.index}
}

// prepare drops half-edges that were clipped away and orders the rest counterclockwise.
func (c *Cell) prepare() int {
	halfedges := c.Halfedges[:0]
	for _, h := range c.Halfedges {
		if h.Edge.Va != NO_VERTEX && h.Edge.Vb != NO_VERTEX {
			halfedges = append(halfedges, h)
		}
	}

	sort.SliceStable(halfedges, func(i, j int) bool {
		return halfedges[i].Angle > halfedges[j].Angle
	})
	c.Halfedges = halfedges
	return len(halfedges)
}
