package slicer

import (
	"math"

	"github.com/philipparndt/gostl-slice/pkg/geometry"
	"github.com/philipparndt/gostl-slice/pkg/mesh"
)

// Classification places a vertex relative to the cutting plane
type Classification int

const (
	On Classification = iota
	Front
	Back
)

// String returns a human-readable name
func (c Classification) String() string {
	switch c {
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return "on"
	}
}

// Classify computes the signed distance of every vertex to the plane and
// buckets it by sign. Distances within epsilon of zero are On; an epsilon of
// zero uses the exact sign.
func Classify(m *mesh.Mesh, plane geometry.Plane, epsilon float64) ([]float64, []Classification) {
	distances := make([]float64, len(m.Vertices))
	classes := make([]Classification, len(m.Vertices))
	for i, v := range m.Vertices {
		d := plane.SignedDistance(v)
		distances[i] = d
		classes[i] = classify(d, epsilon)
	}
	return distances, classes
}

func classify(d, epsilon float64) Classification {
	switch {
	case math.Abs(d) <= epsilon:
		return On
	case d > 0:
		return Front
	default:
		return Back
	}
}
