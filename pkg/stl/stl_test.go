package stl

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/gostl-slice/pkg/geometry"
	"github.com/philipparndt/gostl-slice/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tetraASCII = `solid tetra
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 0 1 0
      vertex 1 0 0
    endloop
  endfacet
  facet normal 0 -1 0
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 0 1
    endloop
  endfacet
  facet normal -1 0 0
    outer loop
      vertex 0 0 0
      vertex 0 0 1
      vertex 0 1 0
    endloop
  endfacet
  facet normal 1 1 1
    outer loop
      vertex 1 0 0
      vertex 0 1 0
      vertex 0 0 1
    endloop
  endfacet
endsolid tetra
`

func TestReadASCII(t *testing.T) {
	m, err := Read(strings.NewReader(tetraASCII))
	require.NoError(t, err)

	assert.Equal(t, "tetra", m.Name)
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 4, m.FaceCount())
	assert.True(t, m.IsWatertight())
	assert.True(t, m.IsConsistentlyOriented())
}

func TestReadASCIIRejectsShortFacet(t *testing.T) {
	data := "solid bad\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nendloop\nendfacet\nendsolid bad\n"

	_, err := Read(strings.NewReader(data))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestReadASCIIRejectsBadNumber(t *testing.T) {
	data := "solid bad\nfacet normal 0 0 1\nouter loop\nvertex 0 zero 0\n"

	_, err := Read(strings.NewReader(data))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestBinaryRoundTrip(t *testing.T) {
	src, err := Read(strings.NewReader(tetraASCII))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, src))
	assert.Equal(t, headerSize+4+4*triangleRecord, buf.Len())

	got, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, "tetra", got.Name)
	assert.Equal(t, src.Vertices, got.Vertices)
	assert.Equal(t, src.Faces, got.Faces)
}

func TestBinaryHeaderStartingWithSolid(t *testing.T) {
	src, err := Read(strings.NewReader(tetraASCII))
	require.NoError(t, err)
	src.Name = "solid exported by a CAD tool"

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, src))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, got.FaceCount())
}

func TestReadBinaryTruncated(t *testing.T) {
	src, err := Read(strings.NewReader(tetraASCII))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, src))
	truncated := buf.Bytes()[:buf.Len()-10]

	_, err = Read(bytes.NewReader(truncated))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestReadBinaryInflatedCount(t *testing.T) {
	data := make([]byte, headerSize+4+triangleRecord)
	copy(data, "binary header")
	binary.LittleEndian.PutUint32(data[headerSize:], 0xFFFFFFFF)

	_, err := Read(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorContains(t, err, "4294967295 triangles")
}

func TestWriteASCII(t *testing.T) {
	m := mesh.New("tri")
	m.AddVertex(geometry.NewVector3(0, 0, 0))
	m.AddVertex(geometry.NewVector3(1, 0, 0))
	m.AddVertex(geometry.NewVector3(0, 1, 0))
	m.AddFace(mesh.NewFace(0, 1, 2))

	var buf bytes.Buffer
	require.NoError(t, WriteASCII(&buf, m))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "solid tri\n"))
	assert.Contains(t, out, "facet normal 0 0 1")
	assert.Contains(t, out, "vertex 1 0 0")
	assert.True(t, strings.HasSuffix(out, "endsolid tri\n"))
}

func TestSaveAndParse(t *testing.T) {
	src, err := Read(strings.NewReader(tetraASCII))
	require.NoError(t, err)

	for _, format := range []Format{ASCII, Binary} {
		path := filepath.Join(t.TempDir(), "tetra.stl")
		require.NoError(t, Save(path, src, format))

		got, err := Parse(path)
		require.NoError(t, err)
		assert.Equal(t, src.FaceCount(), got.FaceCount())
		assert.Equal(t, src.Vertices, got.Vertices)
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.stl"))
	assert.Error(t, err)
}
