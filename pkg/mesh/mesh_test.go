package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/gostl-slice/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	m := unitCube()
	require.NoError(t, m.Validate())

	m.AddFace(NewFace(0, 1, 8))
	assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)
}

func TestCloneIsIndependent(t *testing.T) {
	m := unitCube()
	c := m.Clone()
	c.Vertices[0] = geometry.NewVector3(9, 9, 9)
	c.Faces[0].V[0] = 7

	assert.Equal(t, geometry.NewVector3(0, 0, 0), m.Vertices[0])
	assert.Equal(t, 0, m.Faces[0].V[0])
}

func TestFromTrianglesWelds(t *testing.T) {
	a := geometry.NewVector3(0, 0, 0)
	b := geometry.NewVector3(1, 0, 0)
	c := geometry.NewVector3(1, 1, 0)
	d := geometry.NewVector3(0, 1, 0)

	m := FromTriangles("quad", []geometry.Triangle{
		{V1: a, V2: b, V3: c},
		{V1: a, V2: c, V3: d},
	})

	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 2, m.FaceCount())
	assert.Equal(t, [3]int{0, 2, 3}, m.Faces[1].V)
	assert.Len(t, m.OpenEdges(), 4)
}

func TestCubeTopology(t *testing.T) {
	m := unitCube()
	assert.True(t, m.IsWatertight())
	assert.True(t, m.IsConsistentlyOriented())
	assert.Empty(t, m.OpenEdges())
	assert.Empty(t, m.NonManifoldEdges())
}

func TestFlippedFaceBreaksOrientation(t *testing.T) {
	m := unitCube()
	f := m.Faces[0].V
	m.Faces[0].V = [3]int{f[0], f[2], f[1]}

	assert.True(t, m.IsWatertight())
	assert.False(t, m.IsConsistentlyOriented())
}

func TestEmptyMeshIsNotWatertight(t *testing.T) {
	assert.False(t, New("empty").IsWatertight())
}

func TestNewEdgeIsOrderIndependent(t *testing.T) {
	assert.Equal(t, NewEdge(3, 7), NewEdge(7, 3))
}

func TestTransform(t *testing.T) {
	m := unitCube()
	m.HasNormals = true
	for i := range m.Faces {
		n := m.Triangle(i).Normal
		m.Faces[i].Normals = [3]geometry.Vector3{n, n, n}
	}

	moved := m.Transform(mgl64.Translate3D(1, 2, 3).Mul4(mgl64.Scale3D(2, 2, 2)))

	assert.Equal(t, geometry.NewVector3(1, 2, 3), moved.Vertices[0])
	assert.Equal(t, geometry.NewVector3(3, 4, 5), moved.Vertices[6])
	assert.InDelta(t, -1.0, moved.Faces[0].Normals[0].Z, 1e-12)
	assert.Equal(t, geometry.NewVector3(0, 0, 0), m.Vertices[0])
}

func TestBoundingBox(t *testing.T) {
	bbox := unitCube().BoundingBox()
	assert.Equal(t, geometry.NewVector3(0, 0, 0), bbox.Min)
	assert.Equal(t, geometry.NewVector3(1, 1, 1), bbox.Max)
}

func TestFromTrianglesWeldedMergesNearbyCorners(t *testing.T) {
	a := geometry.NewVector3(0, 0, 0)
	b := geometry.NewVector3(1, 0, 0)
	c := geometry.NewVector3(1, 1, 0)
	d := geometry.NewVector3(0, 1, 0)
	nudge := geometry.NewVector3(1e-12, -1e-12, 0)

	tris := []geometry.Triangle{
		{V1: a, V2: b, V3: c},
		{V1: a.Add(nudge), V2: c.Sub(nudge), V3: d},
	}

	exact := FromTriangles("quad", tris)
	assert.Equal(t, 6, exact.VertexCount())

	welded := FromTrianglesWelded("quad", tris, 1e-9)
	assert.Equal(t, 4, welded.VertexCount())
	assert.Equal(t, 2, welded.FaceCount())
	assert.Len(t, welded.OpenEdges(), 4)
}

func TestFromTrianglesWeldedAcrossCellBoundary(t *testing.T) {
	// the two corners fall into different grid cells
	p := geometry.NewVector3(-1e-13, 0, 0)
	q := geometry.NewVector3(1e-13, 0, 0)
	tris := []geometry.Triangle{
		{V1: p, V2: geometry.NewVector3(1, 0, 0), V3: geometry.NewVector3(0, 1, 0)},
		{V1: q, V2: geometry.NewVector3(0, 1, 0), V3: geometry.NewVector3(-1, 0, 0)},
	}

	m := FromTrianglesWelded("pair", tris, 1e-9)
	assert.Equal(t, 4, m.VertexCount())
}

func TestFromTrianglesWeldedDropsCollapsedFaces(t *testing.T) {
	tris := []geometry.Triangle{
		{V1: geometry.NewVector3(0, 0, 0), V2: geometry.NewVector3(1e-12, 0, 0), V3: geometry.NewVector3(0, 1, 0)},
		{V1: geometry.NewVector3(0, 0, 0), V2: geometry.NewVector3(1, 0, 0), V3: geometry.NewVector3(0, 1, 0)},
	}

	m := FromTrianglesWelded("sliver", tris, 1e-9)
	assert.Equal(t, 1, m.FaceCount())
	require.NoError(t, m.Validate())
}
