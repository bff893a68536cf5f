package main

import (
	"bytes"
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

func writeCube(t *testing.T) string {
	t.Helper()
	m := mesh.New("cube")
	for _, v := range [][3]float64{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	} {
		m.AddVertex(geometry.NewVector3(v[0], v[1], v[2]))
	}
	for _, f := range [][3]int{
		{0, 2, 1}, {0, 3, 2}, {4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4}, {1, 2, 6}, {1, 6, 5},
		{2, 3, 7}, {2, 7, 6}, {3, 0, 4}, {3, 4, 7},
	} {
		m.AddFace(mesh.NewFace(f[0], f[1], f[2]))
	}

	path := filepath.Join(t.TempDir(), "cube.stl")
	require.NoError(t, stl.Save(path, m, stl.ASCII))
	return path
}

func TestRunSliceJobClosesCut(t *testing.T) {
	input := writeCube(t)
	dir := t.TempDir()
	offset := 0.5
	job := &config.Job{
		Input:      input,
		Output:     filepath.Join(dir, "top.stl"),
		BackOutput: filepath.Join(dir, "bottom.stl"),
		Offset:     &offset,
		CloseHoles: true,
		Format:     "binary",
	}

	var out bytes.Buffer
	require.NoError(t, runSliceJob(&out, job))
	assert.Contains(t, out.String(), "Loaded")
	assert.Contains(t, out.String(), "watertight")

	for _, path := range []string{job.Output, job.BackOutput} {
		m, err := stl.Parse(path)
		require.NoError(t, err, path)
		assert.True(t, m.IsWatertight(), path)
		box := m.BoundingBox()
		assert.InDelta(t, 0.5, box.Max.Z-box.Min.Z, 1e-6, path)
	}
}

func TestRunSliceJobWithoutClose(t *testing.T) {
	input := writeCube(t)
	offset := 0.5
	job := &config.Job{
		Input:  input,
		Output: filepath.Join(t.TempDir(), "top.stl"),
		Normal: []float64{0, 0, 2},
		Offset: &offset,
	}

	var out bytes.Buffer
	require.NoError(t, runSliceJob(&out, job))
	assert.Contains(t, out.String(), "open edges")

	data, err := os.ReadFile(job.Output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("solid")))
}

func TestRunSliceJobDegeneratePlane(t *testing.T) {
	job := &config.Job{
		Input:  writeCube(t),
		Output: filepath.Join(t.TempDir(), "out.stl"),
		Normal: []float64{0, 0, 0},
	}

	err := runSliceJob(&bytes.Buffer{}, job)
	assert.ErrorIs(t, err, geometry.ErrDegeneratePlane)
}

func TestRunSliceJobUnsupportedInput(t *testing.T) {
	job := &config.Job{Input: "model.obj", Output: filepath.Join(t.TempDir(), "out.stl")}
	assert.Error(t, runSliceJob(&bytes.Buffer{}, job))
}

func TestPrintInfo(t *testing.T) {
	input := writeCube(t)
	m, err := stl.Parse(input)
	require.NoError(t, err)

	var out bytes.Buffer
	printInfo(&out, input, m)

	text := out.String()
	assert.Contains(t, text, "Vertices: 8")
	assert.Contains(t, text, "Triangles: 12")
	assert.Contains(t, text, "Watertight: true")
	assert.Contains(t, text, "Volume: 1.000000 cubic units")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "gostl-slice")
}

func TestCompletionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"completion", "bash"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "gostl-slice")
}

func TestBuildJobRereadsInputFromJobFile(t *testing.T) {
	dir := t.TempDir()
	jobFile := filepath.Join(dir, "job.yaml")
	defer func(prev string) { sliceConfig = prev }(sliceConfig)
	sliceConfig = jobFile

	require.NoError(t, os.WriteFile(jobFile, []byte("input: first.stl\noutput: out.stl\n"), 0o644))
	job, err := buildJob(sliceCmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "first.stl", job.Input)

	require.NoError(t, os.WriteFile(jobFile, []byte("input: second.stl\noutput: out.stl\n"), 0o644))
	job, err = buildJob(sliceCmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "second.stl", job.Input)

	sources, err := jobSources(job)
	require.NoError(t, err)
	assert.Equal(t, []string{"second.stl", jobFile}, sources)

	job, err = buildJob(sliceCmd, []string{"cli.stl"})
	require.NoError(t, err)
	assert.Equal(t, "cli.stl", job.Input)
}

func TestRunSliceJobPlacesMeshBeforeCutting(t *testing.T) {
	offset := 1.25
	job := &config.Job{
		Input:      writeCube(t),
		Output:     filepath.Join(t.TempDir(), "top.stl"),
		Offset:     &offset,
		CloseHoles: true,
		Transform:  &config.Transform{Translate: []float64{0, 0, 1}},
	}

	var out bytes.Buffer
	require.NoError(t, runSliceJob(&out, job))
	assert.Contains(t, out.String(), "Placed mesh")

	m, err := stl.Parse(job.Output)
	require.NoError(t, err)
	box := m.BoundingBox()
	assert.InDelta(t, 1.25, box.Min.Z, 1e-6)
	assert.InDelta(t, 2.0, box.Max.Z, 1e-6)
	assert.True(t, m.IsWatertight())
}
