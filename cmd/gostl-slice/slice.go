package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/philipparndt/gostl-slice/internal/config"
	"github.com/philipparndt/gostl-slice/internal/loader"
	"github.com/philipparndt/gostl-slice/pkg/analysis"
	"github.com/philipparndt/gostl-slice/pkg/mesh"
	"github.com/philipparndt/gostl-slice/pkg/slicer"
	"github.com/philipparndt/gostl-slice/pkg/stl"
	"github.com/philipparndt/gostl-slice/pkg/watcher"
	"github.com/spf13/cobra"
)

var (
	sliceOutput     string
	sliceBack       string
	sliceNormal     []float64
	sliceOffset     float64
	slicePoint      []float64
	sliceRotate     []float64
	sliceClose      bool
	sliceEpsilon    float64
	sliceBinary     bool
	sliceConfig     string
	sliceWatch      bool
	sliceQuiet      bool
	slicePrimSize   []float64
	slicePrimRadius float64
	slicePrimHeight float64
	slicePrimCells  int
	sliceTranslate  []float64
	sliceMeshRotate []float64
	sliceScale      float64
)

var sliceCmd = &cobra.Command{
	Use:   "slice [file]",
	Short: "Cut a mesh with a plane and keep the front part",
	Long: `Cut a mesh with a plane and keep everything on the side the normal points to.

The plane is given by a normal and either an offset along it or a point on it.
It can be rotated around its closest point to the origin with --rotate.
The mesh itself can be placed first with --scale, --mesh-rotate and
--translate.
Use --close to cap the cut so the result is watertight, and --back to also
write the part behind the plane.

The input can be an STL file, an OpenSCAD file (rendered with the openscad
executable) or a generated shape: primitive:box, primitive:sphere or
primitive:cylinder.

Examples:
  gostl-slice slice part.stl -o top.stl --normal 0,0,1 --offset 5 --close
  gostl-slice slice part.stl -o a.stl --back b.stl --point 0,0,2 --rotate 30,0,0
  gostl-slice slice primitive:sphere -o half.stl --close
  gostl-slice slice --config job.yaml --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSlice,
}

func init() {
	rootCmd.AddCommand(sliceCmd)

	f := sliceCmd.Flags()
	f.StringVarP(&sliceOutput, "output", "o", "", "Output STL file for the front part")
	f.StringVar(&sliceBack, "back", "", "Also write the part behind the plane to this file")
	f.Float64SliceVar(&sliceNormal, "normal", nil, "Plane normal x,y,z (default 0,0,1)")
	f.Float64Var(&sliceOffset, "offset", 0, "Plane offset along the normal")
	f.Float64SliceVar(&slicePoint, "point", nil, "Point x,y,z on the plane")
	f.Float64SliceVar(&sliceRotate, "rotate", nil, "Rotate the plane normal by x,y,z degrees")
	f.BoolVar(&sliceClose, "close", false, "Close the cut with cap faces")
	f.Float64Var(&sliceEpsilon, "epsilon", 0, "Treat vertices closer than this to the plane as on it")
	f.BoolVar(&sliceBinary, "binary", false, "Write binary STL instead of ASCII")
	f.StringVarP(&sliceConfig, "config", "c", "", "Job file (.yaml, .yml or .toml)")
	f.BoolVarP(&sliceWatch, "watch", "w", false, "Slice again whenever the input or job file changes")
	f.BoolVarP(&sliceQuiet, "quiet", "q", false, "Only print errors")
	f.Float64SliceVar(&slicePrimSize, "size", nil, "Primitive box size x,y,z")
	f.Float64Var(&slicePrimRadius, "radius", 0, "Primitive sphere or cylinder radius")
	f.Float64Var(&slicePrimHeight, "height", 0, "Primitive cylinder height")
	f.IntVar(&slicePrimCells, "cells", 0, "Primitive marching cubes resolution")
	f.Float64SliceVar(&sliceTranslate, "translate", nil, "Move the mesh by x,y,z before cutting")
	f.Float64SliceVar(&sliceMeshRotate, "mesh-rotate", nil, "Rotate the mesh by x,y,z degrees before cutting")
	f.Float64Var(&sliceScale, "scale", 0, "Scale the mesh uniformly before cutting")

	sliceCmd.MarkFlagsMutuallyExclusive("offset", "point")
}

func runSlice(cmd *cobra.Command, args []string) error {
	job, err := buildJob(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if sliceQuiet {
		out = io.Discard
	}

	if !sliceWatch {
		return runSliceJob(out, job)
	}
	return watchSliceJob(cmd, args, out, job)
}

// buildJob loads the job file, if any, and applies the flags given on the
// command line on top of it
func buildJob(cmd *cobra.Command, args []string) (*config.Job, error) {
	job := &config.Job{}
	if sliceConfig != "" {
		loaded, err := config.Load(sliceConfig)
		if err != nil {
			return nil, err
		}
		job = loaded
	}

	if len(args) == 1 {
		job.Input = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		job.Output = sliceOutput
	}
	if flags.Changed("back") {
		job.BackOutput = sliceBack
	}
	if flags.Changed("normal") {
		job.Normal = sliceNormal
	}
	if flags.Changed("offset") {
		offset := sliceOffset
		job.Offset = &offset
		job.Point = nil
	}
	if flags.Changed("point") {
		job.Point = slicePoint
		job.Offset = nil
	}
	if flags.Changed("rotate") {
		job.Rotate = sliceRotate
	}
	if flags.Changed("close") {
		job.CloseHoles = sliceClose
	}
	if flags.Changed("epsilon") {
		job.Epsilon = sliceEpsilon
	}
	if flags.Changed("binary") {
		job.Format = "ascii"
		if sliceBinary {
			job.Format = "binary"
		}
	}
	if flags.Changed("size") || flags.Changed("radius") || flags.Changed("height") || flags.Changed("cells") {
		if job.Primitive == nil {
			job.Primitive = &config.Primitive{}
		}
		if flags.Changed("size") {
			job.Primitive.Size = slicePrimSize
		}
		if flags.Changed("radius") {
			job.Primitive.Radius = slicePrimRadius
		}
		if flags.Changed("height") {
			job.Primitive.Height = slicePrimHeight
		}
		if flags.Changed("cells") {
			job.Primitive.Cells = slicePrimCells
		}
	}

	if flags.Changed("translate") || flags.Changed("mesh-rotate") || flags.Changed("scale") {
		if job.Transform == nil {
			job.Transform = &config.Transform{}
		}
		if flags.Changed("translate") {
			job.Transform.Translate = sliceTranslate
		}
		if flags.Changed("mesh-rotate") {
			job.Transform.Rotate = sliceMeshRotate
		}
		if flags.Changed("scale") {
			job.Transform.Scale = sliceScale
		}
	}

	if job.Input == "" {
		return nil, errors.New("no input given (pass a file or set input in the job file)")
	}
	if job.Output == "" {
		return nil, errors.New("no output given (use -o or set output in the job file)")
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// runSliceJob performs one slicing run and reports progress to out
func runSliceJob(out io.Writer, job *config.Job) error {
	start := time.Now()

	plane, err := job.Plane()
	if err != nil {
		return err
	}

	m, err := loader.Load(job.Input, job.Primitive)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Loaded %s: %d vertices, %d triangles\n", job.Input, m.VertexCount(), m.FaceCount())
	if !job.Transform.IsIdentity() {
		m = m.Transform(job.Transform.Matrix())
		fmt.Fprintf(out, "Placed mesh, bounds now %s to %s\n",
			analysis.FormatVector(m.BoundingBox().Min), analysis.FormatVector(m.BoundingBox().Max))
	}
	fmt.Fprintf(out, "Plane: normal %s, offset %.6f\n", analysis.FormatVector(plane.Normal), plane.Offset)

	opts := slicer.Options{CloseHoles: job.CloseHoles, Epsilon: job.Epsilon}
	front, err := slicer.SliceWithOptions(m, plane, opts)
	if err != nil {
		return fmt.Errorf("failed to slice %s: %w", job.Input, err)
	}
	if err := saveResult(out, job.Output, front, job.Format); err != nil {
		return err
	}

	if job.BackOutput != "" {
		back, err := slicer.SliceWithOptions(m, plane.Flip(), opts)
		if err != nil {
			return fmt.Errorf("failed to slice back of %s: %w", job.Input, err)
		}
		if err := saveResult(out, job.BackOutput, back, job.Format); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Done in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func saveResult(out io.Writer, filename string, m *mesh.Mesh, format string) error {
	stlFormat := stl.ASCII
	if strings.EqualFold(format, "binary") {
		stlFormat = stl.Binary
	}
	if err := stl.Save(filename, m, stlFormat); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	fmt.Fprintf(out, "Wrote %s: %d vertices, %d triangles", filename, m.VertexCount(), m.FaceCount())
	if m.IsWatertight() {
		fmt.Fprint(out, ", watertight")
	} else if !m.IsEmpty() {
		fmt.Fprintf(out, ", %d open edges", len(m.OpenEdges()))
	}
	fmt.Fprintln(out)
	return nil
}

func watchSliceJob(cmd *cobra.Command, args []string, out io.Writer, job *config.Job) error {
	fw, err := watcher.NewFileWatcher(200 * time.Millisecond)
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := watchSources(fw, job); err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	if err := runSliceJob(out, job); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(out, "Watching for changes, press Ctrl+C to stop")
	err = fw.Run(ctx, func(path string) {
		fmt.Fprintf(out, "\n%s changed\n", path)
		// args only holds an input given on the command line, so an input
		// changed in the job file takes effect
		next, err := buildJob(cmd, args)
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return
		}
		if err := watchSources(fw, next); err != nil {
			fmt.Fprintf(errOut, "Watch error: %v\n", err)
		}
		if err := runSliceJob(out, next); err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
	}, func(err error) {
		fmt.Fprintf(errOut, "Watch error: %v\n", err)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchSources adds the files the job depends on. Files that are already
// watched are added again without effect.
func watchSources(fw *watcher.FileWatcher, job *config.Job) error {
	sources, err := jobSources(job)
	if err != nil {
		return err
	}
	for _, source := range sources {
		if err := fw.Add(source); err != nil {
			return err
		}
	}
	return nil
}

// jobSources lists the input files of job followed by the job file itself
func jobSources(job *config.Job) ([]string, error) {
	sources, err := loader.Sources(job.Input)
	if err != nil {
		return nil, err
	}
	if sliceConfig != "" {
		sources = append(sources, sliceConfig)
	}
	return sources, nil
}
