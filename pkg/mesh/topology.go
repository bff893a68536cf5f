package mesh

import "sort"

// Edge is an undirected edge stored with the smaller vertex index first
type Edge struct {
	A, B int
}

// NewEdge creates an undirected edge key independent of argument order
func NewEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// EdgeUses counts how many faces use each undirected edge
func (m *Mesh) EdgeUses() map[Edge]int {
	uses := make(map[Edge]int, len(m.Faces)*3/2)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			uses[NewEdge(f.V[i], f.V[(i+1)%3])]++
		}
	}
	return uses
}

// OpenEdges returns the edges used by exactly one face, sorted
func (m *Mesh) OpenEdges() []Edge {
	return m.edgesWhere(func(n int) bool { return n == 1 })
}

// NonManifoldEdges returns the edges used by more than two faces, sorted
func (m *Mesh) NonManifoldEdges() []Edge {
	return m.edgesWhere(func(n int) bool { return n > 2 })
}

func (m *Mesh) edgesWhere(keep func(int) bool) []Edge {
	var edges []Edge
	for e, n := range m.EdgeUses() {
		if keep(n) {
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
	return edges
}

// IsWatertight reports whether every edge is shared by exactly two faces
func (m *Mesh) IsWatertight() bool {
	if len(m.Faces) == 0 {
		return false
	}
	for _, n := range m.EdgeUses() {
		if n != 2 {
			return false
		}
	}
	return true
}

// IsConsistentlyOriented reports whether every directed edge appears once
// and is matched by its reverse in a neighbouring face
func (m *Mesh) IsConsistentlyOriented() bool {
	directed := make(map[[2]int]int, len(m.Faces)*3)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			directed[[2]int{f.V[i], f.V[(i+1)%3]}]++
		}
	}
	for e, n := range directed {
		if n != 1 || directed[[2]int{e[1], e[0]}] != 1 {
			return false
		}
	}
	return true
}
