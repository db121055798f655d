package graph

import "math/rand/v2"

// Random returns a G(n, p) random graph: every unordered pair of distinct
// vertices is joined independently with probability p, and both directions
// of each edge are stored. The same seed always yields the same graph.
func Random(n int, p float64, seed uint64) *Graph {
	g := New(n)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < p {
				_ = g.AddUndirected(i, j)
			}
		}
	}
	return g
}

// Complete returns the complete graph on n vertices.
func Complete(n int) *Graph {
	g := New(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			_ = g.AddUndirected(i, j)
		}
	}
	return g
}

// Cycle returns the cycle 0-1-...-(n-1)-0. For n < 3 it returns a path.
func Cycle(n int) *Graph {
	g := New(n)
	for i := 0; i+1 < n; i++ {
		_ = g.AddUndirected(i, i+1)
	}
	if n >= 3 {
		_ = g.AddUndirected(n-1, 0)
	}
	return g
}
