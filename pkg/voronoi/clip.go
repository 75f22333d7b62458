package voronoi

import "math"

// connectEdge gives a dangling edge its missing end on the bounding box.
// It reports false when the edge does not cross the box at all.
func connectEdge(edge *Edge, bbox BoundingBox) bool {
	vb := edge.Vb
	if vb != NO_VERTEX {
		return true
	}

	va := edge.Va
	xl := bbox.Xl
	xr := bbox.Xr
	yt := bbox.Yt
	yb := bbox.Yb
	lx := edge.LeftCell.Site.X
	ly := edge.LeftCell.Site.Y
	rx := edge.RightCell.Site.X
	ry := edge.RightCell.Site.Y
	fx := (lx + rx) / 2
	fy := (ly + ry) / 2

	switch {
	case equalWithEpsilon(ry, ly):
		// вертикальная биссектриса
		if fx < xl || fx >= xr {
			return false
		}
		if lx > rx {
			if va == NO_VERTEX {
				va = Vertex{fx, yt}
			} else if va.Y >= yb {
				return false
			}
			vb = Vertex{fx, yb}
		} else {
			if va == NO_VERTEX {
				va = Vertex{fx, yb}
			} else if va.Y < yt {
				return false
			}
			vb = Vertex{fx, yt}
		}
	default:
		fm := (lx - rx) / (ry - ly)
		fb := fy - fm*fx
		if fm < -1 || fm > 1 {
			if lx > rx {
				if va == NO_VERTEX {
					va = Vertex{(yt - fb) / fm, yt}
				} else if va.Y >= yb {
					return false
				}
				vb = Vertex{(yb - fb) / fm, yb}
			} else {
				if va == NO_VERTEX {
					va = Vertex{(yb - fb) / fm, yb}
				} else if va.Y < yt {
					return false
				}
				vb = Vertex{(yt - fb) / fm, yt}
			}
		} else {
			if ly < ry {
				if va == NO_VERTEX {
					va = Vertex{xl, fm*xl + fb}
				} else if va.X >= xr {
					return false
				}
				vb = Vertex{xr, fm*xr + fb}
			} else {
				if va == NO_VERTEX {
					va = Vertex{xr, fm*xr + fb}
				} else if va.X < xl {
					return false
				}
				vb = Vertex{xl, fm*xl + fb}
			}
		}
	}

	edge.Va = va
	edge.Vb = vb
	return true
}

// clipEdge is Liang-Barsky clipping of a finite edge against bbox.
func clipEdge(edge *Edge, bbox BoundingBox) bool {
	ax := edge.Va.X
	ay := edge.Va.Y
	dx := edge.Vb.X - ax
	dy := edge.Vb.Y - ay
	t0, t1 := 0.0, 1.0

	// p < 0 enters the box, p > 0 leaves it
	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return false
			}
			if r < t1 {
				t1 = r
			}
		}
		return true
	}

	if !clip(-dx, ax-bbox.Xl) ||
		!clip(dx, bbox.Xr-ax) ||
		!clip(-dy, ay-bbox.Yt) ||
		!clip(dy, bbox.Yb-ay) {
		return false
	}

	if t0 > 0 {
		edge.Va = Vertex{ax + t0*dx, ay + t0*dy}
	}
	if t1 < 1 {
		edge.Vb = Vertex{ax + t1*dx, ay + t1*dy}
	}
	return true
}

func (v *Voronoi) clipEdges(bbox BoundingBox) {
	for i := len(v.edges) - 1; i >= 0; i-- {
		edge := v.edges[i]

		if !connectEdge(edge, bbox) || !clipEdge(edge, bbox) ||
			(math.Abs(edge.Va.X-edge.Vb.X) < epsilon && math.Abs(edge.Va.Y-edge.Vb.Y) < epsilon) {
			edge.Va = NO_VERTEX
			edge.Vb = NO_VERTEX
			v.edges[i] = v.edges[len(v.edges)-1]
			v.edges = v.edges[:len(v.edges)-1]
		}
	}
}

// closeCells walks every cell counterclockwise and bridges gaps between
// consecutive half-edges with border edges along bbox.
func (v *Voronoi) closeCells(bbox BoundingBox) {
	xl := bbox.Xl
	xr := bbox.Xr
	yt := bbox.Yt
	yb := bbox.Yb

	for _, cell := range v.cells {
		if cell.prepare() == 0 {
			continue
		}

		for iLeft := 0; iLeft < len(cell.Halfedges); iLeft++ {
			halfedges := cell.Halfedges
			iRight := (iLeft + 1) % len(halfedges)
			endpoint := halfedges[iLeft].endPoint()
			startpoint := halfedges[iRight].startPoint()
			if math.Abs(endpoint.X-startpoint.X) < epsilon && math.Abs(endpoint.Y-startpoint.Y) < epsilon {
				continue
			}

			va := endpoint
			vb := endpoint
			switch {
			// вниз по левой стороне
			case equalWithEpsilon(endpoint.X, xl) && lessThanWithEpsilon(endpoint.Y, yb):
				if equalWithEpsilon(startpoint.X, xl) {
					vb = Vertex{xl, startpoint.Y}
				} else {
					vb = Vertex{xl, yb}
				}
			// вправо по нижней стороне
			case equalWithEpsilon(endpoint.Y, yb) && lessThanWithEpsilon(endpoint.X, xr):
				if equalWithEpsilon(startpoint.Y, yb) {
					vb = Vertex{startpoint.X, yb}
				} else {
					vb = Vertex{xr, yb}
				}
			// вверх по правой стороне
			case equalWithEpsilon(endpoint.X, xr) && greaterThanWithEpsilon(endpoint.Y, yt):
				if equalWithEpsilon(startpoint.X, xr) {
					vb = Vertex{xr, startpoint.Y}
				} else {
					vb = Vertex{xr, yt}
				}
			// влево по верхней стороне
			case equalWithEpsilon(endpoint.Y, yt) && greaterThanWithEpsilon(endpoint.X, xl):
				if equalWithEpsilon(startpoint.Y, yt) {
					vb = Vertex{startpoint.X, yt}
				} else {
					vb = Vertex{xl, yt}
				}
			default:
				// конец не лежит на рамке: закрыть нечем
				continue
			}

			edge := v.createBorderEdge(cell, va, vb)
			cell.Halfedges = append(cell.Halfedges, nil)
			copy(cell.Halfedges[iLeft+2:], cell.Halfedges[iLeft+1:len(cell.Halfedges)-1])
			cell.Halfedges[iLeft+1] = newHalfedge(edge, cell, nil)
		}
	}
}
