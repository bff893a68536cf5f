package geometry

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrDegeneratePlane is returned when a plane is built from a zero-length normal
var ErrDegeneratePlane = errors.New("degenerate plane: zero-length normal")

// Plane is the set of points p with Normal·p == Offset.
// Normal is a unit vector; points with a positive signed distance are in front.
type Plane struct {
	Normal Vector3
	Offset float64
}

// NewPlane creates a plane from a normal and the signed offset along it.
// The normal is normalized and the offset is scaled to match.
func NewPlane(normal Vector3, offset float64) (Plane, error) {
	length := normal.Length()
	if length == 0 {
		return Plane{}, ErrDegeneratePlane
	}
	return Plane{Normal: normal.Mul(1.0 / length), Offset: offset / length}, nil
}

// NewPlaneFromPoint creates a plane with the given normal passing through point
func NewPlaneFromPoint(normal, point Vector3) (Plane, error) {
	n := normal.Normalize()
	if n == (Vector3{}) {
		return Plane{}, ErrDegeneratePlane
	}
	return Plane{Normal: n, Offset: n.Dot(point)}, nil
}

// SignedDistance returns the distance of point from the plane, positive in front
func (p Plane) SignedDistance(point Vector3) float64 {
	return p.Normal.Dot(point) - p.Offset
}

// IsDegenerate reports whether the plane has no usable normal
func (p Plane) IsDegenerate() bool {
	return p.Normal.Length() == 0
}

// Flip returns the same plane facing the opposite half-space
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Negate(), Offset: -p.Offset}
}

// ClosestPointToOrigin returns the projection of the origin onto the plane
func (p Plane) ClosestPointToOrigin() Vector3 {
	return p.Normal.Mul(p.Offset)
}

// Rotate rotates the plane normal by Euler angles in degrees (applied X, then Y, then Z)
// around the plane's closest point to the origin.
func (p Plane) Rotate(x, y, z float64) Plane {
	rot := mgl64.Rotate3DZ(mgl64.DegToRad(z)).
		Mul3(mgl64.Rotate3DY(mgl64.DegToRad(y))).
		Mul3(mgl64.Rotate3DX(mgl64.DegToRad(x)))
	anchor := p.ClosestPointToOrigin()
	n := FromVec3(rot.Mul3x1(p.Normal.Vec3())).Normalize()
	return Plane{Normal: n, Offset: n.Dot(anchor)}
}
