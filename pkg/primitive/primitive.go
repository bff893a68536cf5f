// Package primitive generates closed test meshes from signed distance
// functions using the sdfx marching cubes renderer.
package primitive

import (
	"fmt"
	"math"
	"strings"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/philipparndt/gostl-slice/pkg/geometry"
	"github.com/philipparndt/gostl-slice/pkg/mesh"
)

// DefaultCells is the marching cubes resolution along the longest axis
const DefaultCells = 64

// Kind names a generated shape
type Kind string

const (
	Box      Kind = "box"
	Sphere   Kind = "sphere"
	Cylinder Kind = "cylinder"
)

// Kinds lists the supported shapes
var Kinds = []Kind{Box, Sphere, Cylinder}

// Spec describes a primitive centred on the origin
type Spec struct {
	Kind   Kind
	Size   geometry.Vector3 // box dimensions
	Radius float64          // sphere and cylinder radius
	Height float64          // cylinder height along Z
	Cells  int
}

// ParseKind resolves a shape name such as "sphere"
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown primitive %q (expected box, sphere or cylinder)", name)
}

// Default returns a unit-sized spec for kind
func Default(kind Kind) Spec {
	return Spec{
		Kind:   kind,
		Size:   geometry.NewVector3(1, 1, 1),
		Radius: 0.5,
		Height: 1,
		Cells:  DefaultCells,
	}
}

// Generate renders the primitive into a welded indexed mesh
func Generate(spec Spec) (*mesh.Mesh, error) {
	solid, err := spec.solid()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", spec.Kind, err)
	}

	cells := spec.Cells
	if cells <= 0 {
		cells = DefaultCells
	}
	triangles := render.ToTriangles(solid, render.NewMarchingCubesUniform(cells))

	bbox := geometry.NewBoundingBox()
	tris := make([]geometry.Triangle, 0, len(triangles))
	for _, tri := range triangles {
		t := geometry.Triangle{
			V1: fromVec(tri[0]),
			V2: fromVec(tri[1]),
			V3: fromVec(tri[2]),
		}
		if t.IsDegenerate() {
			continue
		}
		t.Normal = t.CalculateNormal()
		tris = append(tris, t)
		for _, v := range t.Vertices() {
			bbox.Extend(v)
		}
	}

	// neighbouring cubes compute shared corners with different rounding
	return mesh.FromTrianglesWelded(string(spec.Kind), tris, weldTolerance(bbox, cells)), nil
}

// weldTolerance is a small fraction of one marching cubes cell
func weldTolerance(bbox geometry.BoundingBox, cells int) float64 {
	size := bbox.Size()
	longest := math.Max(size.X, math.Max(size.Y, size.Z))
	if longest == 0 {
		return 0
	}
	return longest / float64(cells) * 1e-6
}

func (s Spec) solid() (sdf.SDF3, error) {
	switch s.Kind {
	case Box:
		return sdf.Box3D(v3.Vec{X: s.Size.X, Y: s.Size.Y, Z: s.Size.Z}, 0)
	case Sphere:
		return sdf.Sphere3D(s.Radius)
	case Cylinder:
		return sdf.Cylinder3D(s.Height, s.Radius, 0)
	default:
		return nil, fmt.Errorf("unknown primitive %q", s.Kind)
	}
}

func fromVec(v v3.Vec) geometry.Vector3 {
	return geometry.NewVector3(v.X, v.Y, v.Z)
}
