package voronoi

import "math"

// BeachSection is one parabolic arc of the beach line.
type BeachSection struct {
	node        *rbtNode
	site        Vertex
	circleEvent *circleEvent
	edge        *Edge
}

func (s *BeachSection) bindToNode(node *rbtNode) {
	s.node = node
}

func (s *BeachSection) Node() *rbtNode {
	return s.node
}

type BeachSectionPtrs []*BeachSection

func (s *BeachSectionPtrs) appendLeft(b *BeachSection) {
	*s = append(*s, nil)
	copy((*s)[1:], (*s)[:len(*s)-1])
	(*s)[0] = b
}

func (s *BeachSectionPtrs) appendRight(b *BeachSection) {
	*s = append(*s, b)
}

// leftBreakPoint is the x of the intersection of arc with its left neighbour
// for the given directrix.
func leftBreakPoint(arc *BeachSection, directrix float64) float64 {
	site := arc.site
	rfocx := site.X
	rfocy := site.Y
	pby2 := rfocy - directrix
	if pby2 == 0 {
		return rfocx
	}

	lArc := arc.Node().previous
	if lArc == nil {
		return math.Inf(-1)
	}
	site = lArc.value.(*BeachSection).site
	lfocx := site.X
	lfocy := site.Y
	plby2 := lfocy - directrix
	if plby2 == 0 {
		return lfocx
	}
	hl := lfocx - rfocx
	aby2 := 1/pby2 - 1/plby2
	b := hl / plby2
	if aby2 != 0 {
		return (-b+math.Sqrt(b*b-2*aby2*(hl*hl/(-2*plby2)-lfocy+plby2/2+rfocy-pby2/2)))/aby2 + rfocx
	}
	return (rfocx + lfocx) / 2
}

func rightBreakPoint(arc *BeachSection, directrix float64) float64 {
	rArc := arc.Node().next
	if rArc != nil {
		return leftBreakPoint(rArc.value.(*BeachSection), directrix)
	}
	if arc.site.Y == directrix {
		return arc.site.X
	}
	return math.Inf(1)
}

func (v *Voronoi) detachBeachSection(arc *BeachSection) {
	v.detachCircleEvent(arc)
	v.beachline.removeNode(arc.node)
}

// removeBeachSection handles a circle event: the arc collapses into a Voronoi vertex,
// together with any neighbours collapsing at the same point.
func (v *Voronoi) removeBeachSection(bs *BeachSection) {
	circle := bs.circleEvent
	x := circle.x
	y := circle.ycenter
	vertex := Vertex{x, y}
	previous := bs.node.previous
	next := bs.node.next
	disappearing := BeachSectionPtrs{bs}

	v.detachBeachSection(bs)

	sameVertex := func(arc *BeachSection) bool {
		return arc.circleEvent != nil &&
			math.Abs(x-arc.circleEvent.x) < epsilon &&
			math.Abs(y-arc.circleEvent.ycenter) < epsilon
	}

	lArc := previous.value.(*BeachSection)
	for sameVertex(lArc) {
		previous = lArc.node.previous
		disappearing.appendLeft(lArc)
		v.detachBeachSection(lArc)
		lArc = previous.value.(*BeachSection)
	}
	disappearing.appendLeft(lArc)
	v.detachCircleEvent(lArc)

	rArc := next.value.(*BeachSection)
	for sameVertex(rArc) {
		next = rArc.node.next
		disappearing.appendRight(rArc)
		v.detachBeachSection(rArc)
		rArc = next.value.(*BeachSection)
	}
	disappearing.appendRight(rArc)
	v.detachCircleEvent(rArc)

	nArcs := len(disappearing)
	for iArc := 1; iArc < nArcs; iArc++ {
		rArc = disappearing[iArc]
		lArc = disappearing[iArc-1]
		v.setEdgeStartpoint(rArc.edge, v.cell(lArc.site), v.cell(rArc.site), vertex)
	}

	lArc = disappearing[0]
	rArc = disappearing[nArcs-1]
	rArc.edge = v.createEdge(v.cell(lArc.site), v.cell(rArc.site), NO_VERTEX, vertex)

	v.attachCircleEvent(lArc)
	v.attachCircleEvent(rArc)
}

// addBeachSection handles a site event: the new site's arc splits the arc above it.
func (v *Voronoi) addBeachSection(site Vertex) {
	x := site.X
	directrix := site.Y

	// lNode и rNode - узлы дуг слева и справа от новой точки
	var lNode, rNode *rbtNode
	node := v.beachline.root

	for node != nil {
		arc := node.value.(*BeachSection)
		dxl := leftBreakPoint(arc, directrix) - x
		if dxl > epsilon {
			node = node.left
			continue
		}
		dxr := x - rightBreakPoint(arc, directrix)
		if dxr > epsilon {
			if node.right == nil {
				lNode = node
				break
			}
			node = node.right
			continue
		}
		switch {
		case dxl > -epsilon:
			lNode = node.previous
			rNode = node
		case dxr > -epsilon:
			lNode = node
			rNode = node.next
		default:
			lNode = node
			rNode = node
		}
		break
	}

	var lArc, rArc *BeachSection
	if lNode != nil {
		lArc = lNode.value.(*BeachSection)
	}
	if rNode != nil {
		rArc = rNode.value.(*BeachSection)
	}

	newArc := &BeachSection{site: site}
	if lArc == nil {
		v.beachline.insertSuccessor(nil, newArc)
	} else {
		v.beachline.insertSuccessor(lArc.node, newArc)
	}

	// первая дуга
	if lArc == nil && rArc == nil {
		return
	}

	// новая дуга делит существующую пополам
	if lArc == rArc {
		v.detachCircleEvent(lArc)

		rArc = &BeachSection{site: lArc.site}
		v.beachline.insertSuccessor(newArc.node, rArc)

		newArc.edge = v.createEdge(v.cell(lArc.site), v.cell(newArc.site), NO_VERTEX, NO_VERTEX)
		rArc.edge = newArc.edge

		v.attachCircleEvent(lArc)
		v.attachCircleEvent(rArc)
		return
	}

	// новая дуга справа от всех остальных на той же высоте
	if rArc == nil {
		newArc.edge = v.createEdge(v.cell(lArc.site), v.cell(newArc.site), NO_VERTEX, NO_VERTEX)
		return
	}

	// новая дуга ровно между двумя дугами: сразу появляется вершина
	v.detachCircleEvent(lArc)
	v.detachCircleEvent(rArc)

	leftSite := lArc.site
	ax := leftSite.X
	ay := leftSite.Y
	bx := site.X - ax
	by := site.Y - ay
	rightSite := rArc.site
	cx := rightSite.X - ax
	cy := rightSite.Y - ay
	d := 2 * (bx*cy - by*cx)
	hb := bx*bx + by*by
	hc := cx*cx + cy*cy
	vertex := Vertex{(cy*hb-by*hc)/d + ax, (bx*hc-cx*hb)/d + ay}

	lCell := v.cell(leftSite)
	cell := v.cell(site)
	rCell := v.cell(rightSite)

	v.setEdgeStartpoint(rArc.edge, lCell, rCell, vertex)

	newArc.edge = v.createEdge(lCell, cell, NO_VERTEX, vertex)
	rArc.edge = v.createEdge(cell, rCell, NO_VERTEX, vertex)

	v.attachCircleEvent(lArc)
	v.attachCircleEvent(rArc)
}
