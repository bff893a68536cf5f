package slicer

import (
	"fmt"
	"math"

	"github.com/philipparndt/gostl-slice/pkg/geometry"
	"github.com/philipparndt/gostl-slice/pkg/mesh"
)

// Triangulate splits a polygon into triangles by repeatedly cutting along its
// shortest diagonal. It returns triangles as indices into points; a triangle
// keeps the polygon's winding. Ties go to the first diagonal found scanning
// pairs (i, j) with i < j.
//
// It panics if fewer than three points are given.
func Triangulate(points []geometry.Vector3) [][3]int {
	if len(points) < 3 {
		panic(fmt.Sprintf("slicer: cannot triangulate polygon with %d vertices", len(points)))
	}
	polygon := make([]int, len(points))
	for i := range polygon {
		polygon[i] = i
	}
	return splitPolygon(polygon, points, make([][3]int, 0, len(points)-2))
}

// TriangulatePolygon triangulates a polygon of vertex indices into m and
// returns triangles of those same vertex indices
func TriangulatePolygon(m *mesh.Mesh, polygon []int) [][3]int {
	points := make([]geometry.Vector3, len(polygon))
	for i, idx := range polygon {
		points[i] = m.Vertices[idx]
	}
	tris := Triangulate(points)
	for i, tri := range tris {
		tris[i] = [3]int{polygon[tri[0]], polygon[tri[1]], polygon[tri[2]]}
	}
	return tris
}

func splitPolygon(polygon []int, points []geometry.Vector3, out [][3]int) [][3]int {
	n := len(polygon)
	if n == 3 {
		return append(out, [3]int{polygon[0], polygon[1], polygon[2]})
	}

	bestI, bestJ := -1, -1
	best := math.Inf(1)
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			// first and last vertex close the polygon
			if i == 0 && j == n-1 {
				continue
			}
			d := points[polygon[i]].DistanceSquared(points[polygon[j]])
			if d < best {
				best, bestI, bestJ = d, i, j
			}
		}
	}
	if bestI < 0 {
		// only reachable with NaN coordinates: fall back to a fan from the first vertex
		bestI, bestJ = 0, 2
	}

	// rotate so the diagonal starts at index 0, then split at its end
	rotated := make([]int, 0, n)
	rotated = append(rotated, polygon[bestI:]...)
	rotated = append(rotated, polygon[:bestI]...)
	split := bestJ - bestI

	first := rotated[:split+1]
	second := make([]int, 0, n-split+1)
	second = append(second, rotated[split:]...)
	second = append(second, rotated[0])

	out = splitPolygon(first, points, out)
	return splitPolygon(second, points, out)
}
