package trend

import "math"

// acosOffset keeps perfectly aligned continuations from scoring exactly zero,
// so that length still separates them.
const acosOffset = 1e-10

// Walk chains candidates into paths.
//
// Candidates are visited in the given order; each one whose endpoints are both
// unvisited seeds a path, which then grows from its tail and afterwards from
// its head. At every step the unvisited neighbour of the current end that
// continues forward (positive dot product with the incoming direction) and
// minimizes angle^(1-damping) * length is taken. Every point a path touches is
// consumed, whether or not the path reaches minEdges.
//
// The returned paths are vertex sequences from head to tail.
func Walk(pos [][2]float64, cands []Candidate, damping float64, minEdges int) (accepted [][]int, rejected int, err error) {
	if err := (Params{Damping: damping}).Validate(); err != nil {
		return nil, 0, err
	}
	if minEdges < 1 {
		minEdges = 1
	}

	w := newWalker(pos, cands, damping)
	for _, c := range cands {
		if w.visited[c.A] || w.visited[c.B] {
			continue
		}
		path := w.grow(c.A, c.B)
		if len(path)-1 < minEdges {
			rejected++
			continue
		}
		accepted = append(accepted, path)
	}
	return accepted, rejected, nil
}

type walker struct {
	pos     [][2]float64
	damping float64
	visited []bool
	// neighbours lists, per point, the other ends of its candidates in candidate order.
	neighbours [][]int
}

func newWalker(pos [][2]float64, cands []Candidate, damping float64) *walker {
	w := &walker{
		pos:        pos,
		damping:    damping,
		visited:    make([]bool, len(pos)),
		neighbours: make([][]int, len(pos)),
	}
	for _, c := range cands {
		w.neighbours[c.A] = append(w.neighbours[c.A], c.B)
		w.neighbours[c.B] = append(w.neighbours[c.B], c.A)
	}
	return w
}

// grow seeds a path on a-b and extends it both ways.
func (w *walker) grow(a, b int) []int {
	w.visited[a] = true
	w.visited[b] = true

	tail := w.extend(a, b)
	head := w.extend(b, a)

	path := make([]int, 0, len(head)+len(tail)+2)
	for i := len(head) - 1; i >= 0; i-- {
		path = append(path, head[i])
	}
	path = append(path, a, b)
	return append(path, tail...)
}

// extend follows the incoming edge from->to and returns the points added beyond to.
func (w *walker) extend(from, to int) []int {
	var added []int
	for {
		next := w.next(from, to)
		if next < 0 {
			return added
		}
		w.visited[next] = true
		added = append(added, next)
		from, to = to, next
	}
}

// next picks the continuation from `to`, or -1 when none moves forward.
func (w *walker) next(from, to int) int {
	inX := w.pos[to][0] - w.pos[from][0]
	inY := w.pos[to][1] - w.pos[from][1]
	inLen := math.Hypot(inX, inY)

	best := -1
	bestScore := math.Inf(1)
	for _, c := range w.neighbours[to] {
		if w.visited[c] {
			continue
		}
		outX := w.pos[c][0] - w.pos[to][0]
		outY := w.pos[c][1] - w.pos[to][1]
		dot := inX*outX + inY*outY
		if dot <= 0 {
			continue
		}
		length := math.Hypot(outX, outY)
		if length == 0 {
			continue
		}
		angle := math.Acos(clamp(dot/(inLen*length)-acosOffset, -1, 1))
		score := math.Pow(angle, 1-w.damping) * length
		if score < bestScore {
			best, bestScore = c, score
		}
	}
	return best
}
