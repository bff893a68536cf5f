// Package config loads slice job files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/gostl-slice/pkg/geometry"
	"gopkg.in/yaml.v3"
)

// Job describes one slicing run. Zero values mean "not set" so that command
// line flags can fill them in.
type Job struct {
	Input      string     `yaml:"input" toml:"input"`
	Output     string     `yaml:"output" toml:"output"`
	BackOutput string     `yaml:"back_output" toml:"back_output"`
	Normal     []float64  `yaml:"normal" toml:"normal"`
	Offset     *float64   `yaml:"offset" toml:"offset"`
	Point      []float64  `yaml:"point" toml:"point"`
	Rotate     []float64  `yaml:"rotate" toml:"rotate"`
	CloseHoles bool       `yaml:"close_holes" toml:"close_holes"`
	Epsilon    float64    `yaml:"epsilon" toml:"epsilon"`
	Format     string     `yaml:"format" toml:"format"`
	Primitive  *Primitive `yaml:"primitive" toml:"primitive"`
	Transform  *Transform `yaml:"transform" toml:"transform"`
}

// Transform places the input mesh before it is cut. Scale is applied
// first, then rotation (X, then Y, then Z, in degrees), then translation.
type Transform struct {
	Translate []float64 `yaml:"translate" toml:"translate"`
	Rotate    []float64 `yaml:"rotate" toml:"rotate"`
	Scale     float64   `yaml:"scale" toml:"scale"`
}

// Primitive overrides the generated shape used for primitive: inputs
type Primitive struct {
	Size   []float64 `yaml:"size" toml:"size"`
	Radius float64   `yaml:"radius" toml:"radius"`
	Height float64   `yaml:"height" toml:"height"`
	Cells  int       `yaml:"cells" toml:"cells"`
}

// Load reads a job from a .yaml, .yml or .toml file
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	job := &Job{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, job); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, job); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config type: %s (expected .yaml, .yml or .toml)", ext)
	}

	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return job, nil
}

// Validate checks vector lengths and the output format
func (j *Job) Validate() error {
	for name, v := range map[string][]float64{"normal": j.Normal, "point": j.Point, "rotate": j.Rotate} {
		if len(v) != 0 && len(v) != 3 {
			return fmt.Errorf("%s needs 3 components, got %d", name, len(v))
		}
	}
	if j.Primitive != nil && len(j.Primitive.Size) != 0 && len(j.Primitive.Size) != 3 {
		return fmt.Errorf("primitive size needs 3 components, got %d", len(j.Primitive.Size))
	}
	if t := j.Transform; t != nil {
		for name, v := range map[string][]float64{"transform translate": t.Translate, "transform rotate": t.Rotate} {
			if len(v) != 0 && len(v) != 3 {
				return fmt.Errorf("%s needs 3 components, got %d", name, len(v))
			}
		}
		if t.Scale < 0 {
			return fmt.Errorf("transform scale must be positive")
		}
	}
	if j.Offset != nil && len(j.Point) != 0 {
		return fmt.Errorf("offset and point are mutually exclusive")
	}
	switch strings.ToLower(j.Format) {
	case "", "ascii", "binary":
	default:
		return fmt.Errorf("unknown format %q (expected ascii or binary)", j.Format)
	}
	if j.Epsilon < 0 {
		return fmt.Errorf("epsilon must not be negative")
	}
	return nil
}

// Plane builds the cutting plane. Without a normal the plane faces +Z; with
// neither offset nor point it passes through the origin.
func (j *Job) Plane() (geometry.Plane, error) {
	normal := geometry.NewVector3(0, 0, 1)
	if len(j.Normal) == 3 {
		normal = vector(j.Normal)
	}

	var plane geometry.Plane
	var err error
	if len(j.Point) == 3 {
		plane, err = geometry.NewPlaneFromPoint(normal, vector(j.Point))
	} else {
		offset := 0.0
		if j.Offset != nil {
			offset = *j.Offset
		}
		plane, err = geometry.NewPlane(normal.Normalize(), offset)
	}
	if err != nil {
		return geometry.Plane{}, err
	}

	if len(j.Rotate) == 3 {
		plane = plane.Rotate(j.Rotate[0], j.Rotate[1], j.Rotate[2])
	}
	return plane, nil
}

// IsIdentity reports whether the transform leaves the mesh unchanged
func (t *Transform) IsIdentity() bool {
	return t == nil || (len(t.Translate) == 0 && len(t.Rotate) == 0 && (t.Scale == 0 || t.Scale == 1))
}

// Matrix returns the placement as a homogeneous matrix
func (t *Transform) Matrix() mgl64.Mat4 {
	mat := mgl64.Ident4()
	if t == nil {
		return mat
	}
	if len(t.Translate) == 3 {
		mat = mat.Mul4(mgl64.Translate3D(t.Translate[0], t.Translate[1], t.Translate[2]))
	}
	if len(t.Rotate) == 3 {
		mat = mat.Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(t.Rotate[2]))).
			Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(t.Rotate[1]))).
			Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(t.Rotate[0])))
	}
	if t.Scale > 0 {
		mat = mat.Mul4(mgl64.Scale3D(t.Scale, t.Scale, t.Scale))
	}
	return mat
}

func vector(c []float64) geometry.Vector3 {
	return geometry.NewVector3(c[0], c[1], c[2])
}
