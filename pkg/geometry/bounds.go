package geometry

import "math"

// BoundingBox is an axis-aligned box. A box with Min above Max holds no
// points.
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// NewBoundingBox returns an empty box ready to be grown with Extend
func NewBoundingBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: NewVector3(inf, inf, inf),
		Max: NewVector3(-inf, -inf, -inf),
	}
}

// BoundingBoxOf returns the smallest box holding all points
func BoundingBoxOf(points ...Vector3) BoundingBox {
	b := NewBoundingBox()
	for _, p := range points {
		b.Extend(p)
	}
	return b
}

// Extend grows the box to include point
func (b *BoundingBox) Extend(point Vector3) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// IsEmpty reports whether no point has been added to the box
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Size returns the extent along each axis
func (b BoundingBox) Size() Vector3 {
	if b.IsEmpty() {
		return Vector3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box
func (b BoundingBox) Center() Vector3 {
	return b.Min.Lerp(b.Max, 0.5)
}

// Diagonal returns the distance between the two extreme corners
func (b BoundingBox) Diagonal() float64 {
	return b.Size().Length()
}

// Volume returns the volume enclosed by the box
func (b BoundingBox) Volume() float64 {
	s := b.Size()
	return s.X * s.Y * s.Z
}

// Contains reports whether point lies inside the box or on its surface
func (b BoundingBox) Contains(point Vector3) bool {
	return point.X >= b.Min.X && point.X <= b.Max.X &&
		point.Y >= b.Min.Y && point.Y <= b.Max.Y &&
		point.Z >= b.Min.Z && point.Z <= b.Max.Z
}
