package slicer

import (
	"errors"
	"fmt"
)

// ErrNonManifoldBoundary is returned when the cut boundary cannot be walked
// into closed loops, typically because the input mesh is not manifold
var ErrNonManifoldBoundary = errors.New("non-manifold cut boundary")

// ErrInvalidEpsilon is returned for a negative or NaN classification epsilon
var ErrInvalidEpsilon = errors.New("epsilon must be a non-negative number")

// NonManifoldError reports a boundary vertex that is not joined to exactly
// two boundary edges
type NonManifoldError struct {
	Vertex int
	Degree int
}

func (e *NonManifoldError) Error() string {
	return fmt.Sprintf("%v: vertex %d has %d boundary edges, expected 2", ErrNonManifoldBoundary, e.Vertex, e.Degree)
}

// Is makes errors.Is match ErrNonManifoldBoundary
func (e *NonManifoldError) Is(target error) bool {
	return target == ErrNonManifoldBoundary
}
