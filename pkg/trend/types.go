// Package trend finds trend lines in labelled point clouds.
//
// Points of one label are triangulated, the triangulation edges become
// candidates, and a greedy walker chains candidates into polylines that
// prefer short, straight continuations. Labels are independent of each
// other; label 0 means "not grouped" and never produces lines.
package trend

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidDamping is returned when damping is outside [0, 1].
	ErrInvalidDamping = errors.New("trend: damping must be between 0 and 1")

	// ErrLabelMismatch is returned when the label vector does not have one entry per point.
	ErrLabelMismatch = errors.New("trend: labels must have one entry per point")

	// ErrPartMismatch is returned when a part vector is given without one entry per point.
	ErrPartMismatch = errors.New("trend: parts must have one entry per point")

	// ErrNoTriangulation marks a label group skipped because the triangulation failed.
	ErrNoTriangulation = errors.New("trend: no triangulation available for group")
)

// Point is an input position. Only X and Y take part in the geometry; Z is carried through.
type Point struct {
	X, Y, Z float64
}

func (p Point) xy() [2]float64 {
	return [2]float64{p.X, p.Y}
}

// Edge joins two point indices. Inside a path it is directed from A to B.
type Edge struct {
	A, B int
}

// Candidate is an undirected edge (A < B) eligible for walking.
type Candidate struct {
	Edge
	Length float64
}

// Params are the detection parameters.
type Params struct {
	// MaxDistance drops candidates longer than this. Nil means unbounded.
	MaxDistance *float64
	// Azimuth is in degrees clockwise from north. The orientation filter
	// runs only when both Azimuth and AzimuthTol are set.
	Azimuth    *float64
	AzimuthTol *float64
	// Damping in [0, 1] trades angular deviation against edge length when
	// a path chooses how to continue. 0 favours the straightest continuation,
	// 1 the shortest edge.
	Damping float64
	// MinEdges is the number of edges a path needs to be kept. Values below 1 act as 1.
	MinEdges int
}

// Validate reports configuration errors that must stop a run before any walking.
func (p Params) Validate() error {
	if math.IsNaN(p.Damping) || p.Damping < 0 || p.Damping > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidDamping, p.Damping)
	}
	return nil
}

func (p Params) minEdges() int {
	if p.MinEdges < 1 {
		return 1
	}
	return p.MinEdges
}

func (p Params) orientation() (azimuth, tol float64, ok bool) {
	if p.Azimuth == nil || p.AzimuthTol == nil {
		return 0, 0, false
	}
	return *p.Azimuth, *p.AzimuthTol, true
}

// Input is the point set handed to the detector.
type Input struct {
	Points []Point
	// Labels has one entry per point; 0 is "no group".
	Labels []int
	// Parts optionally tags points that belong to one object, e.g. the vertices
	// of one digitized segment. Candidates inside a part are dropped so that
	// trend lines bridge parts. Nil puts every point in its own part.
	Parts []int
}

func (in Input) validate() error {
	if len(in.Labels) != len(in.Points) {
		return fmt.Errorf("%w: %d labels for %d points", ErrLabelMismatch, len(in.Labels), len(in.Points))
	}
	if in.Parts != nil && len(in.Parts) != len(in.Points) {
		return fmt.Errorf("%w: %d parts for %d points", ErrPartMismatch, len(in.Parts), len(in.Points))
	}
	return nil
}

// Triangulator computes the Delaunay edges of a planar point set as index pairs.
// Fewer than two points should give no edges and no error.
type Triangulator interface {
	Triangulate(points [][2]float64) ([][2]int, error)
}

// Polyline is one accepted path, head to tail, as indices into Result.Vertices.
type Polyline struct {
	Label    int
	Vertices []int
}

// Edges returns the number of segments of the polyline.
func (p Polyline) Edges() int {
	if len(p.Vertices) < 2 {
		return 0
	}
	return len(p.Vertices) - 1
}

// GroupStats reports what happened to one label group.
type GroupStats struct {
	Label      int
	Points     int
	Candidates int
	Accepted   int
	Rejected   int
	// Skipped is non-empty when the group produced no walk at all.
	Skipped string
}

// Result is the compact output geometry. Vertices, Labels and the indices in
// Cells and Polylines all refer to the same dense numbering.
type Result struct {
	Vertices  []Point
	Cells     [][2]int
	Labels    []int
	Polylines []Polyline
	Groups    []GroupStats
	// Source maps every output vertex back to its input index.
	Source []int
}

// Found reports whether any connection was made. An empty result is a valid
// outcome, not a failure.
func (r *Result) Found() bool {
	return r != nil && len(r.Cells) > 0
}
