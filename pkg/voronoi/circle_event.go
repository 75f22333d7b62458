package voronoi

import "math"

type circleEvent struct {
	node    *rbtNode
	site    Vertex
	arc     *BeachSection
	x       float64
	y       float64
	ycenter float64
}

func (s *circleEvent) bindToNode(node *rbtNode) {
	s.node = node
}

func (s *circleEvent) Node() *rbtNode {
	return s.node
}

// attachCircleEvent schedules the collapse of arc if its neighbours converge.
func (v *Voronoi) attachCircleEvent(arc *BeachSection) {
	lArc := arc.node.previous
	rArc := arc.node.next
	if lArc == nil || rArc == nil {
		return
	}
	leftSite := lArc.value.(*BeachSection).site
	cSite := arc.site
	rightSite := rArc.value.(*BeachSection).site

	if leftSite == rightSite {
		return
	}

	bx := cSite.X
	by := cSite.Y
	ax := leftSite.X - bx
	ay := leftSite.Y - by
	cx := rightSite.X - bx
	cy := rightSite.Y - by

	// три точки по часовой стрелке или на одной прямой: круга нет
	d := 2 * (ax*cy - ay*cx)
	if d >= -2e-12 {
		return
	}

	ha := ax*ax + ay*ay
	hc := cx*cx + cy*cy
	x := (cy*ha - ay*hc) / d
	y := (ax*hc - cx*ha) / d
	ycenter := y + by

	event := &circleEvent{
		arc:     arc,
		site:    cSite,
		x:       x + bx,
		y:       ycenter + math.Sqrt(x*x+y*y),
		ycenter: ycenter,
	}
	arc.circleEvent = event

	var predecessor *rbtNode
	node := v.circleEvents.root
	for node != nil {
		other := node.value.(*circleEvent)
		if event.y < other.y || (event.y == other.y && event.x <= other.x) {
			if node.left == nil {
				predecessor = node.previous
				break
			}
			node = node.left
		} else {
			if node.right == nil {
				predecessor = node
				break
			}
			node = node.right
		}
	}
	v.circleEvents.insertSuccessor(predecessor, event)
	if predecessor == nil {
		v.firstCircleEvent = event
	}
}

func (v *Voronoi) detachCircleEvent(arc *BeachSection) {
	circle := arc.circleEvent
	if circle == nil {
		return
	}
	if circle.node.previous == nil {
		if circle.node.next != nil {
			v.firstCircleEvent = circle.node.next.value.(*circleEvent)
		} else {
			v.firstCircleEvent = nil
		}
	}
	v.circleEvents.removeNode(circle.node)
	arc.circleEvent = nil
}
