package trend

import (
	"fmt"
	"math"
	"sort"
)

// BuildCandidates turns the triangulation of one label group into candidate edges.
//
// pos, labels and parts describe the group's points; labels and parts carry the
// values from the full input so that edges are checked against the real tags.
// The result is sorted by ascending length, ties broken by index pair, so that
// shorter edges seed paths first. Edges longer than maxDistance, edges joining
// different labels and edges inside one part are dropped.
func BuildCandidates(tri Triangulator, pos [][2]float64, labels, parts []int, maxDistance *float64) ([]Candidate, error) {
	if len(pos) < 2 {
		return nil, nil
	}

	raw, err := tri.Triangulate(pos)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTriangulation, err)
	}

	seen := make(map[Edge]struct{}, len(raw))
	cands := make([]Candidate, 0, len(raw))
	for _, r := range raw {
		a, b := r[0], r[1]
		if a == b || a < 0 || b < 0 || a >= len(pos) || b >= len(pos) {
			continue
		}
		if a > b {
			a, b = b, a
		}
		e := Edge{A: a, B: b}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		cands = append(cands, Candidate{Edge: e, Length: distance(pos[a], pos[b])})
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Length != cands[j].Length {
			return cands[i].Length < cands[j].Length
		}
		if cands[i].A != cands[j].A {
			return cands[i].A < cands[j].A
		}
		return cands[i].B < cands[j].B
	})

	kept := cands[:0]
	for _, c := range cands {
		if maxDistance != nil && c.Length > *maxDistance {
			continue
		}
		if labels[c.A] != labels[c.B] {
			continue
		}
		if parts != nil && parts[c.A] == parts[c.B] {
			continue
		}
		kept = append(kept, c)
	}
	return kept, nil
}

func distance(a, b [2]float64) float64 {
	return math.Hypot(b[0]-a[0], b[1]-a[1])
}
