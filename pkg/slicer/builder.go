package slicer

import (
	"math"

	"github.com/philipparndt/gostl-slice/pkg/geometry"
	"github.com/philipparndt/gostl-slice/pkg/mesh"
)

// edgeKey identifies a source edge independent of direction
type edgeKey struct {
	a, b int
}

func newEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a: a, b: b}
}

// corner is one emitted polygon vertex with the attributes it carries into
// the output face
type corner struct {
	index  int
	normal geometry.Vector3
	uv     geometry.Vector2
}

// builder holds the state of a single slicing call
type builder struct {
	src   *mesh.Mesh
	dst   *mesh.Mesh
	plane geometry.Plane

	distances []float64
	classes   []Classification

	vertexRemap   map[int]int
	intersections map[edgeKey]int

	// boundary is the stream of cut edges in face order; the last bucket may
	// be half filled while a face is being clipped
	boundary [][]int
	// onEdges counts kept-face edges lying in the plane
	onEdges     map[mesh.Edge]int
	onEdgeOrder []mesh.Edge

	face    mesh.Face
	polygon []corner
}

func newBuilder(src *mesh.Mesh, plane geometry.Plane, distances []float64, classes []Classification) *builder {
	return &builder{
		src:   src,
		dst: &mesh.Mesh{
			Name:       src.Name,
			HasNormals: src.HasNormals,
			HasUVs:     src.HasUVs,
		},
		plane:         plane,
		distances:     distances,
		classes:       classes,
		vertexRemap:   make(map[int]int),
		intersections: make(map[edgeKey]int),
		boundary:      [][]int{{}},
		onEdges:       make(map[mesh.Edge]int),
		polygon:       make([]corner, 0, 4),
	}
}

func (b *builder) startFace(f mesh.Face) {
	b.face = f
	b.polygon = b.polygon[:0]
}

// endFace triangulates the emitted polygon into output faces
func (b *builder) endFace() {
	points := make([]geometry.Vector3, len(b.polygon))
	for i, c := range b.polygon {
		points[i] = b.dst.Vertices[c.index]
	}
	for _, tri := range Triangulate(points) {
		var f mesh.Face
		for i, local := range tri {
			c := b.polygon[local]
			f.V[i] = c.index
			f.Normals[i] = c.normal
			f.UVs[i] = c.uv
		}
		b.dst.AddFace(f)
	}
}

// addVertex emits corner k of the current face
func (b *builder) addVertex(k int) int {
	src := b.face.V[k]
	idx, ok := b.vertexRemap[src]
	if !ok {
		idx = b.dst.AddVertex(b.src.Vertices[src])
		b.vertexRemap[src] = idx
	}

	c := corner{index: idx}
	if b.src.HasNormals {
		c.normal = b.face.Normals[k]
	}
	if b.src.HasUVs {
		c.uv = b.face.UVs[k]
	}
	b.polygon = append(b.polygon, c)
	return idx
}

// addIntersection emits the point where the edge from corner ka to corner kb
// crosses the plane
func (b *builder) addIntersection(ka, kb int) int {
	srcA, srcB := b.face.V[ka], b.face.V[kb]
	da, db := math.Abs(b.distances[srcA]), math.Abs(b.distances[srcB])
	t := da / (da + db)

	key := newEdgeKey(srcA, srcB)
	idx, ok := b.intersections[key]
	if !ok {
		idx = b.dst.AddVertex(b.src.Vertices[srcA].Lerp(b.src.Vertices[srcB], t))
		b.intersections[key] = idx
	}

	c := corner{index: idx}
	if b.src.HasNormals {
		c.normal = b.face.Normals[ka].Lerp(b.face.Normals[kb], t).Normalize()
	}
	if b.src.HasUVs {
		c.uv = b.face.UVs[ka].Lerp(b.face.UVs[kb], t)
	}
	b.polygon = append(b.polygon, c)
	b.addBoundaryPoint(idx)
	return idx
}

// addBoundaryPoint appends a cut point to the boundary stream, starting a new
// bucket once the current one holds an edge
func (b *builder) addBoundaryPoint(idx int) {
	last := len(b.boundary) - 1
	if len(b.boundary[last]) < 2 {
		b.boundary[last] = append(b.boundary[last], idx)
		return
	}
	b.boundary = append(b.boundary, []int{idx})
}

// trackOnEdges records the current face's edges whose endpoints both lie in the plane
func (b *builder) trackOnEdges() {
	for k := 0; k < 3; k++ {
		a, c := b.face.V[k], b.face.V[(k+1)%3]
		if b.classes[a] != On || b.classes[c] != On {
			continue
		}
		e := mesh.NewEdge(b.vertexRemap[a], b.vertexRemap[c])
		if _, seen := b.onEdges[e]; !seen {
			b.onEdgeOrder = append(b.onEdgeOrder, e)
		}
		b.onEdges[e]++
	}
}

// boundaryEdges returns the completed cut edges followed by in-plane edges
// used by only one kept face
func (b *builder) boundaryEdges() ([][2]int, error) {
	var edges [][2]int
	for _, bucket := range b.boundary {
		switch len(bucket) {
		case 0:
			continue
		case 2:
			edges = append(edges, [2]int{bucket[0], bucket[1]})
		default:
			return nil, &NonManifoldError{Vertex: bucket[0], Degree: 1}
		}
	}
	for _, e := range b.onEdgeOrder {
		if b.onEdges[e] == 1 {
			edges = append(edges, [2]int{e.A, e.B})
		}
	}
	return edges, nil
}

// closeHoles stitches the cut boundary into cap faces
func (b *builder) closeHoles() error {
	edges, err := b.boundaryEdges()
	if err != nil {
		return err
	}
	if len(edges) == 0 {
		return nil
	}
	loops, err := ReconstructLoops(edges)
	if err != nil {
		return err
	}
	for _, loop := range loops {
		normal := orientLoop(b.dst, loop, b.plane)
		for _, tri := range TriangulatePolygon(b.dst, loop) {
			f := mesh.Face{V: tri}
			if b.dst.HasNormals {
				f.Normals = [3]geometry.Vector3{normal, normal, normal}
			}
			b.dst.AddFace(f)
		}
	}
	return nil
}
