package trend

import "sort"

// groupPaths holds the accepted paths of one label in input index space.
type groupPaths struct {
	label int
	paths [][]int
}

// assemble renumbers the points used by any path densely, in ascending input
// order, and emits vertices, two-point cells, per-vertex labels and polylines.
func assemble(points []Point, groups []groupPaths) *Result {
	used := make(map[int]int)
	for _, g := range groups {
		for _, path := range g.paths {
			for _, p := range path {
				used[p] = g.label
			}
		}
	}

	source := make([]int, 0, len(used))
	for p := range used {
		source = append(source, p)
	}
	sort.Ints(source)

	res := &Result{
		Vertices: make([]Point, len(source)),
		Labels:   make([]int, len(source)),
		Source:   source,
	}
	renumber := make(map[int]int, len(source))
	for i, p := range source {
		renumber[p] = i
		res.Vertices[i] = points[p]
		res.Labels[i] = used[p]
	}

	for _, g := range groups {
		for _, path := range g.paths {
			line := Polyline{Label: g.label, Vertices: make([]int, len(path))}
			for i, p := range path {
				line.Vertices[i] = renumber[p]
				if i > 0 {
					res.Cells = append(res.Cells, [2]int{line.Vertices[i-1], line.Vertices[i]})
				}
			}
			res.Polylines = append(res.Polylines, line)
		}
	}
	return res
}
