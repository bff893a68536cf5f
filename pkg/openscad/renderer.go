// Package openscad turns .scad sources into meshes through the openscad
// executable.
package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/philipparndt/gostl-slice/pkg/mesh"
	"github.com/philipparndt/gostl-slice/pkg/stl"
)

// ErrNotInstalled is returned when openscad cannot be found in PATH
var ErrNotInstalled = errors.New("openscad not found in PATH, install it from https://openscad.org/")

var dependencyPattern = regexp.MustCompile(`^\s*(?:use|include)\s*<([^>]+)>`)

// Renderer exports .scad files to STL
type Renderer struct {
	workDir string
	binary  string
}

// NewRenderer creates a renderer resolving relative paths against workDir
func NewRenderer(workDir string) *Renderer {
	return &Renderer{workDir: workDir, binary: "openscad"}
}

// Render exports scadFile and returns the resulting mesh
func (r *Renderer) Render(ctx context.Context, scadFile string) (*mesh.Mesh, error) {
	tmp, err := os.MkdirTemp("", "gostl-slice-scad")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	output := filepath.Join(tmp, "model.stl")
	if err := r.RenderToSTL(ctx, scadFile, output); err != nil {
		return nil, err
	}

	m, err := stl.Parse(output)
	if err != nil {
		return nil, fmt.Errorf("failed to read openscad output: %w", err)
	}
	m.Name = strings.TrimSuffix(filepath.Base(scadFile), filepath.Ext(scadFile))
	return m, nil
}

// RenderToSTL runs openscad to write scadFile as outputFile
func (r *Renderer) RenderToSTL(ctx context.Context, scadFile, outputFile string) error {
	if _, err := exec.LookPath(r.binary); err != nil {
		return ErrNotInstalled
	}

	cmd := exec.CommandContext(ctx, r.binary, "-o", outputFile, r.abs(scadFile))
	cmd.Dir = r.workDir

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(output.String()); msg != "" {
			return fmt.Errorf("failed to render %s: %w\n%s", scadFile, err, msg)
		}
		return fmt.Errorf("failed to render %s: %w", scadFile, err)
	}
	return nil
}

// Dependencies lists scadFile and every file it reaches through use or
// include statements, as absolute paths in discovery order
func (r *Renderer) Dependencies(scadFile string) ([]string, error) {
	visited := make(map[string]bool)
	var deps []string

	var visit func(file string) error
	visit = func(file string) error {
		if visited[file] {
			return nil
		}
		visited[file] = true
		deps = append(deps, file)

		direct, err := r.parseDependencies(file)
		if err != nil {
			return err
		}
		for _, dep := range direct {
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(r.abs(scadFile)); err != nil {
		return nil, err
	}
	return deps, nil
}

func (r *Renderer) parseDependencies(scadFile string) ([]string, error) {
	file, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scadFile, err)
	}
	defer file.Close()

	var deps []string
	dir := filepath.Dir(scadFile)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		if m := dependencyPattern.FindStringSubmatch(line); m != nil {
			deps = append(deps, r.resolve(m[1], dir))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", scadFile, err)
	}
	return deps, nil
}

// resolve looks next to the including file first, then in the work dir
func (r *Renderer) resolve(dep, dir string) string {
	local := filepath.Clean(filepath.Join(dir, dep))
	if strings.HasPrefix(dep, "./") || strings.HasPrefix(dep, "../") {
		return local
	}
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return filepath.Clean(filepath.Join(r.workDir, dep))
}

func (r *Renderer) abs(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(r.workDir, file)
}
