// Package mesh holds the indexed triangle mesh shared by the slicer, the STL
// codec and the analysis tools.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/gostl-slice/pkg/geometry"
)

// ErrInvalidMesh is returned when a face references a vertex that does not exist
var ErrInvalidMesh = errors.New("invalid mesh")

// Face is a triangle given by three vertex indices in winding order.
// Normals and UVs hold per-corner attributes and are only meaningful when
// the owning mesh has the matching capability flag set.
type Face struct {
	V       [3]int
	Normals [3]geometry.Vector3
	UVs     [3]geometry.Vector2
}

// NewFace creates a face without per-corner attributes
func NewFace(a, b, c int) Face {
	return Face{V: [3]int{a, b, c}}
}

// Mesh is an indexed triangle mesh.
// A mesh carries normals and UVs either on every face or on none.
type Mesh struct {
	Name       string
	Vertices   []geometry.Vector3
	Faces      []Face
	HasNormals bool
	HasUVs     bool
}

// New creates an empty mesh
func New(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddVertex appends a vertex and returns its index
func (m *Mesh) AddVertex(v geometry.Vector3) int {
	m.Vertices = append(m.Vertices, v)
	return len(m.Vertices) - 1
}

// AddFace appends a face
func (m *Mesh) AddFace(f Face) {
	m.Faces = append(m.Faces, f)
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of faces
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty reports whether the mesh has no faces
func (m *Mesh) IsEmpty() bool {
	return len(m.Faces) == 0
}

// Validate checks that every face index refers to an existing vertex
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		for _, idx := range f.V {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("%w: face %d references vertex %d of %d", ErrInvalidMesh, i, idx, len(m.Vertices))
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the mesh
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Name:       m.Name,
		Vertices:   make([]geometry.Vector3, len(m.Vertices)),
		Faces:      make([]Face, len(m.Faces)),
		HasNormals: m.HasNormals,
		HasUVs:     m.HasUVs,
	}
	copy(out.Vertices, m.Vertices)
	copy(out.Faces, m.Faces)
	return out
}

// Triangle returns the geometry of face i with its computed facet normal
func (m *Mesh) Triangle(i int) geometry.Triangle {
	f := m.Faces[i]
	tri := geometry.Triangle{
		V1: m.Vertices[f.V[0]],
		V2: m.Vertices[f.V[1]],
		V3: m.Vertices[f.V[2]],
	}
	tri.Normal = tri.CalculateNormal()
	return tri
}

// Triangles returns the mesh as a triangle soup
func (m *Mesh) Triangles() []geometry.Triangle {
	tris := make([]geometry.Triangle, len(m.Faces))
	for i := range m.Faces {
		tris[i] = m.Triangle(i)
	}
	return tris
}

// BoundingBox calculates the bounding box of all referenced and unreferenced vertices
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, v := range m.Vertices {
		bbox.Extend(v)
	}
	return bbox
}

// FromTriangles builds an indexed mesh from a triangle soup.
// Corners with bit-identical coordinates are welded into one vertex.
func FromTriangles(name string, triangles []geometry.Triangle) *Mesh {
	m := New(name)
	index := make(map[geometry.Vector3]int, len(triangles))
	for _, tri := range triangles {
		var f Face
		for i, v := range tri.Vertices() {
			idx, ok := index[v]
			if !ok {
				idx = m.AddVertex(v)
				index[v] = idx
			}
			f.V[i] = idx
		}
		m.AddFace(f)
	}
	return m
}

// Transform returns a copy of the mesh with positions transformed by mat.
// Normals are transformed by the inverse transpose and renormalized.
func (m *Mesh) Transform(mat mgl64.Mat4) *Mesh {
	out := m.Clone()
	for i, v := range out.Vertices {
		out.Vertices[i] = geometry.FromVec3(mgl64.TransformCoordinate(v.Vec3(), mat))
	}
	if !out.HasNormals {
		return out
	}
	normalMat := mat.Inv().Transpose()
	for i := range out.Faces {
		for c, n := range out.Faces[i].Normals {
			out.Faces[i].Normals[c] = geometry.FromVec3(mgl64.TransformNormal(n.Vec3(), normalMat)).Normalize()
		}
	}
	return out
}
