package mesh

import (
	"math"

	"github.com/philipparndt/gostl-slice/pkg/geometry"
)

type weldCell [3]int64

// welder merges points closer than its tolerance. Points are bucketed on a
// grid with the tolerance as cell size, so a match is always found in the
// point's own cell or one of its neighbours.
type welder struct {
	m         *Mesh
	tolerance float64
	cells     map[weldCell][]int
}

func newWelder(m *Mesh, tolerance float64) *welder {
	return &welder{m: m, tolerance: tolerance, cells: make(map[weldCell][]int)}
}

func (w *welder) cell(v geometry.Vector3) weldCell {
	return weldCell{
		int64(math.Floor(v.X / w.tolerance)),
		int64(math.Floor(v.Y / w.tolerance)),
		int64(math.Floor(v.Z / w.tolerance)),
	}
}

// index returns the vertex within tolerance of v, adding v if there is none
func (w *welder) index(v geometry.Vector3) int {
	c := w.cell(v)
	limit := w.tolerance * w.tolerance
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				for _, idx := range w.cells[weldCell{c[0] + dx, c[1] + dy, c[2] + dz}] {
					if w.m.Vertices[idx].DistanceSquared(v) <= limit {
						return idx
					}
				}
			}
		}
	}
	idx := w.m.AddVertex(v)
	w.cells[c] = append(w.cells[c], idx)
	return idx
}

// FromTrianglesWelded builds an indexed mesh from a triangle soup, merging
// corners closer than tolerance. Triangles that collapse onto fewer than
// three vertices are dropped. A tolerance of zero welds bit-identical
// coordinates only.
func FromTrianglesWelded(name string, triangles []geometry.Triangle, tolerance float64) *Mesh {
	if tolerance <= 0 {
		return FromTriangles(name, triangles)
	}

	m := New(name)
	w := newWelder(m, tolerance)
	for _, tri := range triangles {
		var f Face
		for i, v := range tri.Vertices() {
			f.V[i] = w.index(v)
		}
		if f.V[0] == f.V[1] || f.V[1] == f.V[2] || f.V[2] == f.V[0] {
			continue
		}
		m.AddFace(f)
	}
	return m
}
