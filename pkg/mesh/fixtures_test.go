package mesh

import "github.com/philipparndt/gostl-slice/pkg/geometry"

// unitCube returns an axis-aligned cube from 0 to 1 with outward CCW faces
func unitCube() *Mesh {
	m := New("cube")
	for _, v := range [][3]float64{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	} {
		m.AddVertex(geometry.NewVector3(v[0], v[1], v[2]))
	}
	for _, f := range [][3]int{
		{0, 2, 1}, {0, 3, 2}, // bottom
		{4, 5, 6}, {4, 6, 7}, // top
		{0, 1, 5}, {0, 5, 4}, // front
		{1, 2, 6}, {1, 6, 5}, // right
		{2, 3, 7}, {2, 7, 6}, // back
		{3, 0, 4}, {3, 4, 7}, // left
	} {
		m.AddFace(NewFace(f[0], f[1], f[2]))
	}
	return m
}
