package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/gostl-slice/internal/config"
	"github.com/philipparndt/gostl-slice/pkg/geometry"
	"github.com/philipparndt/gostl-slice/pkg/mesh"
	"github.com/philipparndt/gostl-slice/pkg/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSTLNamesFromFile(t *testing.T) {
	m := mesh.New("")
	m.AddVertex(geometry.NewVector3(0, 0, 0))
	m.AddVertex(geometry.NewVector3(1, 0, 0))
	m.AddVertex(geometry.NewVector3(0, 1, 0))
	m.AddFace(mesh.NewFace(0, 1, 2))

	path := filepath.Join(t.TempDir(), "bracket.stl")
	require.NoError(t, stl.Save(path, m, stl.Binary))

	got, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "bracket", got.Name)
	assert.Equal(t, 1, got.FaceCount())
}

func TestLoadPrimitive(t *testing.T) {
	got, err := Load("primitive:box", &config.Primitive{Size: []float64{2, 1, 1}, Cells: 10})
	require.NoError(t, err)

	assert.Equal(t, "box", got.Name)
	assert.InDelta(t, 2.0, got.BoundingBox().Size().X, 0.4)
}

func TestLoadRejectsUnknownInputs(t *testing.T) {
	_, err := Load("primitive:torus", nil)
	assert.Error(t, err)

	_, err = Load("model.obj", nil)
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestSources(t *testing.T) {
	deps, err := Sources("primitive:sphere")
	require.NoError(t, err)
	assert.Empty(t, deps)

	deps, err = Sources("part.stl")
	require.NoError(t, err)
	assert.Equal(t, []string{"part.stl"}, deps)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "part.scad"), []byte("include <dims.scad>\ncube(size);\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dims.scad"), []byte("size = 4;\n"), 0o644))

	deps, err = Sources(filepath.Join(dir, "part.scad"))
	require.NoError(t, err)
	assert.Len(t, deps, 2)
	assert.Equal(t, "dims.scad", filepath.Base(deps[1]))
}
