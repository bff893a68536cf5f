package main

import (
	"fmt"
	"io"

	"github.com/philipparndt/gostl-slice/internal/loader"
	"github.com/philipparndt/gostl-slice/pkg/analysis"
	"github.com/philipparndt/gostl-slice/pkg/mesh"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display general information about a mesh",
	Long:  "Show dimensions, triangle and vertex counts, surface area, volume, edge statistics and whether the mesh is watertight.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	m, err := loader.Load(filename, nil)
	if err != nil {
		return err
	}

	printInfo(cmd.OutOrStdout(), filename, m)
	return nil
}

func printInfo(out io.Writer, filename string, m *mesh.Mesh) {
	result := analysis.AnalyzeMesh(m)

	fmt.Fprintln(out, "Mesh Information")
	fmt.Fprintln(out, "====================")
	if m.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", m.Name)
	}
	fmt.Fprintf(out, "File: %s\n\n", filename)

	fmt.Fprintln(out, "Mesh Statistics:")
	fmt.Fprintf(out, "  Vertices: %d\n", result.VertexCount)
	fmt.Fprintf(out, "  Triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(out, "  Edges: %d (open: %d, non-manifold: %d)\n", result.EdgeCount, result.OpenEdgeCount, result.NonManifoldEdges)
	fmt.Fprintf(out, "  Watertight: %t\n", result.Watertight)
	fmt.Fprintf(out, "  Surface Area: %.6f square units\n\n", result.SurfaceArea)

	if result.BoundingBox.IsEmpty() {
		return
	}

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(out, "  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Fprintln(out, "Dimensions:")
	fmt.Fprintf(out, "  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Fprintf(out, "  Depth (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Fprintf(out, "  Height (Z): %.6f units\n", result.Dimensions.Z)
	fmt.Fprintf(out, "  Diagonal: %.6f units\n", result.BoundingBox.Diagonal())
	if result.Watertight {
		fmt.Fprintf(out, "  Volume: %.6f cubic units\n\n", result.Volume)
	} else {
		fmt.Fprintf(out, "  Volume (bounding box): %.6f cubic units\n\n", result.Volume)
	}

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(out, "  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(out, "  Average: %.6f units\n", result.AvgEdgeLength)
}
