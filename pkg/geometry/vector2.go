package geometry

// Vector2 is a texture coordinate
type Vector2 struct {
	U, V float64
}

// NewVector2 creates a new texture coordinate
func NewVector2(u, v float64) Vector2 {
	return Vector2{U: u, V: v}
}

// Lerp interpolates from v towards other by t
func (v Vector2) Lerp(other Vector2, t float64) Vector2 {
	return Vector2{
		U: v.U + (other.U-v.U)*t,
		V: v.V + (other.V-v.V)*t,
	}
}
