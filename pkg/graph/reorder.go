package graph

import (
	"cmp"
	"slices"
)

// DegreeOrder returns a copy of g with vertices relabelled by ascending
// degree, together with the mapping order[newID] == oldID.
//
// Ties keep their original relative order, so the result is deterministic.
// Neighbour lists of the returned graph are sorted ascending.
func DegreeOrder(g *Graph) (*Graph, []int) {
	order := make([]int, g.n)
	for v := range order {
		order[v] = v
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(len(g.lists[a]), len(g.lists[b]))
	})
	return Relabel(g, order), order
}

// Relabel returns a copy of g in which old vertex order[i] becomes vertex i.
// order must be a permutation of 0..n-1. Neighbour lists of the result are
// sorted ascending.
func Relabel(g *Graph, order []int) *Graph {
	inv := make([]int, g.n)
	for newID, oldID := range order {
		inv[oldID] = newID
	}
	out := New(g.n)
	for v := 0; v < g.n; v++ {
		nv := inv[v]
		for _, w := range g.lists[v] {
			nw := inv[w]
			out.rows[nv][nw>>6] |= 1 << (uint(nw) & 63)
			out.lists[nv] = append(out.lists[nv], nw)
		}
	}
	out.edges = g.edges
	out.SortNeighbors()
	return out
}
