package trend

import "math"

// FilterOrientation keeps the candidates whose direction lies within tol
// degrees of azimuth, measured clockwise from north. Candidates are
// undirected, so the reciprocal azimuth matches as well.
func FilterOrientation(pos [][2]float64, cands []Candidate, azimuth, tol float64) []Candidate {
	rad := azimuth * math.Pi / 180
	refX, refY := math.Sin(rad), math.Cos(rad)
	limit := tol * math.Pi / 180

	kept := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		dx := pos[c.B][0] - pos[c.A][0]
		dy := pos[c.B][1] - pos[c.A][1]
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		angle := math.Acos(clamp((dx*refX+dy*refY)/length, -1, 1))
		if angle < limit || math.Abs(angle-math.Pi) < limit {
			kept = append(kept, c)
		}
	}
	return kept
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
