package slicer

import (
	"fmt"

	"github.com/philipparndt/gostl-slice/pkg/geometry"
	"github.com/philipparndt/gostl-slice/pkg/mesh"
)

// ReconstructLoops walks an unordered set of boundary edges into closed
// vertex loops. Every vertex must be joined to exactly two edges; anything
// else is reported as a *NonManifoldError.
func ReconstructLoops(edges [][2]int) ([][]int, error) {
	links := make(map[int][]int)
	var order []int
	for _, e := range edges {
		if e[0] == e[1] {
			return nil, fmt.Errorf("%w: degenerate edge at vertex %d", ErrNonManifoldBoundary, e[0])
		}
		for _, v := range e {
			if _, ok := links[v]; !ok {
				order = append(order, v)
			}
		}
		links[e[0]] = append(links[e[0]], e[1])
		links[e[1]] = append(links[e[1]], e[0])
	}
	for _, v := range order {
		if n := len(links[v]); n != 2 {
			return nil, &NonManifoldError{Vertex: v, Degree: n}
		}
	}

	visited := make(map[mesh.Edge]bool, len(edges))
	var loops [][]int
	for _, e := range edges {
		if visited[mesh.NewEdge(e[0], e[1])] {
			continue
		}
		loop, err := walkLoop(e[0], e[1], links, visited)
		if err != nil {
			return nil, err
		}
		loops = append(loops, loop)
	}
	return loops, nil
}

func walkLoop(start, next int, links map[int][]int, visited map[mesh.Edge]bool) ([]int, error) {
	loop := []int{start}
	visited[mesh.NewEdge(start, next)] = true
	prev, current := start, next
	for current != start {
		loop = append(loop, current)
		found := false
		for _, candidate := range links[current] {
			edge := mesh.NewEdge(current, candidate)
			if visited[edge] {
				continue
			}
			visited[edge] = true
			prev, current = current, candidate
			found = true
			break
		}
		if !found {
			return nil, fmt.Errorf("%w: boundary walk stuck at vertex %d after %d", ErrNonManifoldBoundary, current, prev)
		}
	}
	if len(loop) < 3 {
		return nil, fmt.Errorf("%w: loop through vertex %d has only %d vertices", ErrNonManifoldBoundary, start, len(loop))
	}
	return loop, nil
}

// loopNormal returns the unit normal of a closed polygon using Newell's
// method, which stays stable when leading vertices are collinear
func loopNormal(m *mesh.Mesh, loop []int) geometry.Vector3 {
	var n geometry.Vector3
	for i, idx := range loop {
		a := m.Vertices[idx]
		b := m.Vertices[loop[(i+1)%len(loop)]]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n.Normalize()
}

// orientLoop reverses the loop in place when it faces into the kept half-space
func orientLoop(m *mesh.Mesh, loop []int, plane geometry.Plane) geometry.Vector3 {
	n := loopNormal(m, loop)
	if n.Dot(plane.Normal) > 0.5 {
		for i, j := 0, len(loop)-1; i < j; i, j = i+1, j-1 {
			loop[i], loop[j] = loop[j], loop[i]
		}
		n = n.Negate()
	}
	return n
}
