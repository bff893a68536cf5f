package geometry

// Triangle is a facet with a stored normal, as found in STL files
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// NewTriangle creates a new triangle
func NewTriangle(normal, v1, v2, v3 Vector3) Triangle {
	return Triangle{Normal: normal, V1: v1, V2: v2, V3: v3}
}

func (t Triangle) cross() Vector3 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1))
}

// CalculateNormal returns the unit normal implied by the winding order.
// Degenerate triangles yield the zero vector.
func (t Triangle) CalculateNormal() Vector3 {
	return t.cross().Normalize()
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	return t.cross().Length() / 2.0
}

// IsDegenerate reports whether the triangle has no area
func (t Triangle) IsDegenerate() bool {
	return t.cross() == Vector3{}
}

// EdgeLengths returns the lengths of V1-V2, V2-V3 and V3-V1
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V1.Distance(t.V2),
		t.V2.Distance(t.V3),
		t.V3.Distance(t.V1),
	}
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	return t.V1.Add(t.V2).Add(t.V3).Mul(1.0 / 3.0)
}

// SignedVolume returns the signed volume of the tetrahedron spanned by the
// triangle and the origin. Summed over a closed outward-facing surface it
// gives the enclosed volume.
func (t Triangle) SignedVolume() float64 {
	return t.V1.Dot(t.V2.Cross(t.V3)) / 6.0
}

// Vertices returns the three corners in winding order
func (t Triangle) Vertices() [3]Vector3 {
	return [3]Vector3{t.V1, t.V2, t.V3}
}
