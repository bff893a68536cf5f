package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/gostl-slice/pkg/geometry"
	"github.com/philipparndt/gostl-slice/pkg/mesh"
)

// EdgeInfo contains information about an edge in the mesh
type EdgeInfo struct {
	Start  geometry.Vector3
	End    geometry.Vector3
	Length float64
	Faces  int // number of faces sharing the edge
}

// MeasurementResult contains various measurements of a mesh
type MeasurementResult struct {
	BoundingBox      geometry.BoundingBox
	Dimensions       geometry.Vector3
	Volume           float64
	SurfaceArea      float64
	VertexCount      int
	TriangleCount    int
	EdgeCount        int
	OpenEdgeCount    int
	NonManifoldEdges int
	Watertight       bool
	MinEdgeLength    float64
	MaxEdgeLength    float64
	AvgEdgeLength    float64
	AllEdges         []EdgeInfo
}

// AnalyzeMesh performs comprehensive analysis on a mesh.
// Volume is the enclosed volume for a watertight mesh and the bounding box
// volume otherwise.
func AnalyzeMesh(m *mesh.Mesh) *MeasurementResult {
	result := &MeasurementResult{
		BoundingBox:   m.BoundingBox(),
		VertexCount:   m.VertexCount(),
		TriangleCount: m.FaceCount(),
		Watertight:    m.IsWatertight(),
	}
	if !result.BoundingBox.IsEmpty() {
		result.Dimensions = result.BoundingBox.Size()
	}

	for i := range m.Faces {
		result.SurfaceArea += m.Triangle(i).Area()
	}
	if result.Watertight {
		result.Volume = SignedVolume(m)
	} else if !result.BoundingBox.IsEmpty() {
		result.Volume = result.BoundingBox.Volume()
	}

	uses := m.EdgeUses()
	edges := make([]mesh.Edge, 0, len(uses))
	for e := range uses {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	for _, e := range edges {
		start, end := m.Vertices[e.A], m.Vertices[e.B]
		info := EdgeInfo{
			Start:  start,
			End:    end,
			Length: start.Distance(end),
			Faces:  uses[e],
		}
		result.AllEdges = append(result.AllEdges, info)

		switch {
		case info.Faces == 1:
			result.OpenEdgeCount++
		case info.Faces > 2:
			result.NonManifoldEdges++
		}

		totalLength += info.Length
		minLength = math.Min(minLength, info.Length)
		maxLength = math.Max(maxLength, info.Length)
	}

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	return result
}

// SignedVolume calculates the volume of a closed mesh using the signed
// tetrahedron method. The result is negative for inward facing meshes.
func SignedVolume(m *mesh.Mesh) float64 {
	volume := 0.0
	for _, tri := range m.Triangles() {
		volume += tri.SignedVolume()
	}
	return volume
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(result *MeasurementResult, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindOpenEdges returns the edges used by a single face
func FindOpenEdges(result *MeasurementResult) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Faces == 1 {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges in the mesh
func FindLongestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length > b.Length })
}

// FindShortestEdges returns the N shortest edges in the mesh
func FindShortestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length < b.Length })
}

func sortedEdges(result *MeasurementResult, count int, less func(a, b EdgeInfo) bool) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return less(edges[i], edges[j])
	})

	if count > len(edges) {
		count = len(edges)
	}
	return edges[:count]
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
