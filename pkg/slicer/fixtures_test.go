package slicer

import (
	"testing"

	"github.com/philipparndt/gostl-slice/pkg/geometry"
	"github.com/philipparndt/gostl-slice/pkg/mesh"
	"github.com/stretchr/testify/require"
)

func v3(x, y, z float64) geometry.Vector3 {
	return geometry.NewVector3(x, y, z)
}

func buildMesh(vertices []geometry.Vector3, faces ...[3]int) *mesh.Mesh {
	m := mesh.New("fixture")
	m.Vertices = append(m.Vertices, vertices...)
	for _, f := range faces {
		m.AddFace(mesh.NewFace(f[0], f[1], f[2]))
	}
	return m
}

// unitCube returns an axis-aligned cube from 0 to 1 with outward CCW faces
func unitCube() *mesh.Mesh {
	return buildMesh(
		[]geometry.Vector3{
			v3(0, 0, 0), v3(1, 0, 0), v3(1, 1, 0), v3(0, 1, 0),
			v3(0, 0, 1), v3(1, 0, 1), v3(1, 1, 1), v3(0, 1, 1),
		},
		[3]int{0, 2, 1}, [3]int{0, 3, 2},
		[3]int{4, 5, 6}, [3]int{4, 6, 7},
		[3]int{0, 1, 5}, [3]int{0, 5, 4},
		[3]int{1, 2, 6}, [3]int{1, 6, 5},
		[3]int{2, 3, 7}, [3]int{2, 7, 6},
		[3]int{3, 0, 4}, [3]int{3, 4, 7},
	)
}

// octahedron returns a closed octahedron with its equator in the z=0 plane
func octahedron() *mesh.Mesh {
	return buildMesh(
		[]geometry.Vector3{
			v3(1, 0, 0), v3(0, 1, 0), v3(-1, 0, 0), v3(0, -1, 0),
			v3(0, 0, 1), v3(0, 0, -1),
		},
		[3]int{0, 1, 4}, [3]int{1, 2, 4}, [3]int{2, 3, 4}, [3]int{3, 0, 4},
		[3]int{1, 0, 5}, [3]int{2, 1, 5}, [3]int{3, 2, 5}, [3]int{0, 3, 5},
	)
}

func zPlane(t *testing.T, offset float64) geometry.Plane {
	t.Helper()
	p, err := geometry.NewPlane(v3(0, 0, 1), offset)
	require.NoError(t, err)
	return p
}

// signedVolume sums the signed tetrahedra volumes against the origin
func signedVolume(m *mesh.Mesh) float64 {
	volume := 0.0
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]
		volume += a.Dot(b.Cross(c))
	}
	return volume / 6.0
}

// capFaces returns the faces of m whose corners all lie on plane
func capFaces(m *mesh.Mesh, plane geometry.Plane) []int {
	var caps []int
	for i, f := range m.Faces {
		onPlane := true
		for _, v := range f.V {
			if plane.SignedDistance(m.Vertices[v]) != 0 {
				onPlane = false
			}
		}
		if onPlane {
			caps = append(caps, i)
		}
	}
	return caps
}
