// Package slicer cuts indexed triangle meshes with a plane.
//
// Slice keeps the geometry in front of the plane (positive signed distance).
// Triangles that straddle the plane are clipped; new vertices on the cut get
// interpolated normals and texture coordinates, and a source edge crossed by
// two faces yields a single shared vertex so the result stays watertight.
// With closeHoles set, the open cut boundary is walked into loops and capped.
package slicer

import (
	"fmt"
	"math"

	"github.com/philipparndt/gostl-slice/pkg/geometry"
	"github.com/philipparndt/gostl-slice/pkg/mesh"
)

// Options controls a slicing run
type Options struct {
	// CloseHoles caps the cut with faces facing away from the kept side
	CloseHoles bool
	// Epsilon treats vertices closer than this to the plane as lying on it.
	// Zero classifies by exact sign.
	Epsilon float64
}

// Slice returns a new mesh holding the part of m in front of plane.
// The source mesh and plane are never modified.
func Slice(m *mesh.Mesh, plane geometry.Plane, closeHoles bool) (*mesh.Mesh, error) {
	return SliceWithOptions(m, plane, Options{CloseHoles: closeHoles})
}

// SliceWithOptions is Slice with explicit options
func SliceWithOptions(m *mesh.Mesh, plane geometry.Plane, opts Options) (*mesh.Mesh, error) {
	if plane.IsDegenerate() {
		return nil, geometry.ErrDegeneratePlane
	}
	if opts.Epsilon < 0 || math.IsNaN(opts.Epsilon) {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidEpsilon, opts.Epsilon)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	distances, classes := Classify(m, plane, opts.Epsilon)
	b := newBuilder(m, plane, distances, classes)

	for _, f := range m.Faces {
		clipFace(b, f)
	}

	if opts.CloseHoles {
		if err := b.closeHoles(); err != nil {
			return nil, fmt.Errorf("failed to close cut: %w", err)
		}
	}
	return b.dst, nil
}

// Split slices m with plane and with its flip, returning the part in front
// of the plane and the part behind it
func Split(m *mesh.Mesh, plane geometry.Plane, closeHoles bool) (front, back *mesh.Mesh, err error) {
	front, err = Slice(m, plane, closeHoles)
	if err != nil {
		return nil, nil, err
	}
	back, err = Slice(m, plane.Flip(), closeHoles)
	if err != nil {
		return nil, nil, err
	}
	return front, back, nil
}

// clipFace emits the part of f in front of the plane
func clipFace(b *builder, f mesh.Face) {
	var hasFront, hasBack bool
	for _, v := range f.V {
		switch b.classes[v] {
		case Front:
			hasFront = true
		case Back:
			hasBack = true
		}
	}
	if !hasFront && hasBack {
		return
	}
	straddles := hasFront && hasBack

	b.startFace(f)

	last := 2
	lastClass := b.classes[f.V[last]]
	for k, v := range f.V {
		class := b.classes[v]
		switch class {
		case Front:
			if lastClass == Back {
				b.addIntersection(last, k)
			}
			b.addVertex(k)
		case On:
			idx := b.addVertex(k)
			if straddles {
				b.addBoundaryPoint(idx)
			}
		case Back:
			if lastClass == Front {
				b.addIntersection(last, k)
			}
		}
		last, lastClass = k, class
	}

	b.trackOnEdges()
	b.endFace()
}
