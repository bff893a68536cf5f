// Package loader resolves CLI inputs into meshes.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/philipparndt/gostl-slice/internal/config"
	"github.com/philipparndt/gostl-slice/pkg/geometry"
	"github.com/philipparndt/gostl-slice/pkg/mesh"
	"github.com/philipparndt/gostl-slice/pkg/openscad"
	"github.com/philipparndt/gostl-slice/pkg/primitive"
	"github.com/philipparndt/gostl-slice/pkg/stl"
)

// PrimitivePrefix marks an input that is generated instead of read
const PrimitivePrefix = "primitive:"

// IsPrimitive reports whether input names a generated shape
func IsPrimitive(input string) bool {
	return strings.HasPrefix(input, PrimitivePrefix)
}

// Load reads an STL file, renders an OpenSCAD file or generates a primitive
// such as "primitive:sphere". overrides may be nil.
func Load(input string, overrides *config.Primitive) (*mesh.Mesh, error) {
	return LoadContext(context.Background(), input, overrides)
}

// LoadContext is Load with a context bounding the openscad run
func LoadContext(ctx context.Context, input string, overrides *config.Primitive) (*mesh.Mesh, error) {
	if IsPrimitive(input) {
		kind, err := primitive.ParseKind(strings.TrimPrefix(input, PrimitivePrefix))
		if err != nil {
			return nil, err
		}
		spec := primitive.Default(kind)
		applyOverrides(&spec, overrides)
		return primitive.Generate(spec)
	}

	ext := strings.ToLower(filepath.Ext(input))
	switch ext {
	case ".stl":
	case ".scad":
		return openscad.NewRenderer(filepath.Dir(input)).Render(ctx, filepath.Base(input))
	default:
		return nil, fmt.Errorf("unsupported file type: %s (expected .stl, .scad or %s<shape>)", ext, PrimitivePrefix)
	}
	m, err := stl.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("failed to parse STL file: %w", err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	return m, nil
}

// Sources lists the files whose changes affect input: nothing for a
// primitive, the file itself for STL, and the include tree for OpenSCAD
func Sources(input string) ([]string, error) {
	switch {
	case IsPrimitive(input):
		return nil, nil
	case strings.EqualFold(filepath.Ext(input), ".scad"):
		return openscad.NewRenderer(filepath.Dir(input)).Dependencies(filepath.Base(input))
	default:
		return []string{input}, nil
	}
}

func applyOverrides(spec *primitive.Spec, p *config.Primitive) {
	if p == nil {
		return
	}
	if len(p.Size) == 3 {
		spec.Size = geometry.NewVector3(p.Size[0], p.Size[1], p.Size[2])
	}
	if p.Radius > 0 {
		spec.Radius = p.Radius
	}
	if p.Height > 0 {
		spec.Height = p.Height
	}
	if p.Cells > 0 {
		spec.Cells = p.Cells
	}
}
