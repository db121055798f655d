package graph

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrVertexRange is returned by [Graph.AddEdge] when an endpoint is not
	// in [0, n).
	ErrVertexRange = errors.New("vertex out of range")

	// ErrSelfLoop is returned by [Graph.AddEdge] for a record (v, v). The
	// clique search relies on no vertex being its own neighbour.
	ErrSelfLoop = errors.New("self-loop")

	// ErrNegativeOrder is returned by [Validate] for a negative vertex count.
	ErrNegativeOrder = errors.New("vertex count must not be negative")
)

// WordsFor returns the number of 64-bit words needed to hold n bits.
func WordsFor(n int) int {
	return (n + 63) >> 6
}

// Neighborhood is a read-only view of one vertex's adjacency.
//
// Bits has one bit per vertex of the graph; List holds the same vertices
// without repetition, in insertion order (or ascending order after
// [DegreeOrder]).
type Neighborhood struct {
	Bits []uint64
	List []int
}

// Has reports whether v is in the neighbourhood.
func (nb Neighborhood) Has(v int) bool {
	return nb.Bits[v>>6]&(1<<(uint(v)&63)) != 0
}

// Len returns the number of neighbours.
func (nb Neighborhood) Len() int { return len(nb.List) }

// Graph is a graph on vertices 0..n-1 with a bit-matrix and adjacency-list
// representation of each vertex's neighbourhood.
//
// The zero value is an empty graph with no vertices.
type Graph struct {
	n     int
	words int
	rows  [][]uint64
	lists [][]int
	edges int
}

// New creates a graph with n isolated vertices. n must not be negative.
func New(n int) *Graph {
	if n < 0 {
		panic(fmt.Sprintf("graph: %v: %d", ErrNegativeOrder, n))
	}
	words := WordsFor(n)
	backing := make([]uint64, n*words)
	rows := make([][]uint64, n)
	for v := range rows {
		rows[v] = backing[v*words : (v+1)*words : (v+1)*words]
	}
	return &Graph{
		n:     n,
		words: words,
		rows:  rows,
		lists: make([][]int, n),
	}
}

// Validate checks a declared vertex count before a graph is allocated.
func Validate(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeOrder, n)
	}
	return nil
}

// Order returns the number of vertices.
func (g *Graph) Order() int { return g.n }

// Records returns the number of distinct directed adjacency records.
func (g *Graph) Records() int { return g.edges }

// AddEdge inserts the directed record "w is a neighbour of v". It reports
// whether the record was new; repeating an existing record is not an error.
func (g *Graph) AddEdge(v, w int) (bool, error) {
	if v < 0 || v >= g.n {
		return false, fmt.Errorf("%w: %d (n=%d)", ErrVertexRange, v, g.n)
	}
	if w < 0 || w >= g.n {
		return false, fmt.Errorf("%w: %d (n=%d)", ErrVertexRange, w, g.n)
	}
	if v == w {
		return false, fmt.Errorf("%w: %d", ErrSelfLoop, v)
	}
	if g.Adjacent(v, w) {
		return false, nil
	}
	g.rows[v][w>>6] |= 1 << (uint(w) & 63)
	g.lists[v] = append(g.lists[v], w)
	g.edges++
	return true, nil
}

// AddUndirected inserts both (v, w) and (w, v).
func (g *Graph) AddUndirected(v, w int) error {
	if _, err := g.AddEdge(v, w); err != nil {
		return err
	}
	_, err := g.AddEdge(w, v)
	return err
}

// Adjacent reports whether w is a neighbour of v.
func (g *Graph) Adjacent(v, w int) bool {
	return g.rows[v][w>>6]&(1<<(uint(w)&63)) != 0
}

// Neighborhood returns the adjacency view of v. The returned slices are
// owned by the graph and must not be modified.
func (g *Graph) Neighborhood(v int) Neighborhood {
	return Neighborhood{Bits: g.rows[v], List: g.lists[v]}
}

// Neighbors returns the neighbour list of v. The slice is owned by the graph.
func (g *Graph) Neighbors(v int) []int { return g.lists[v] }

// Degree returns the number of neighbours of v.
func (g *Graph) Degree(v int) int { return len(g.lists[v]) }

// Symmetric reports whether every record (v, w) has a matching (w, v).
func (g *Graph) Symmetric() bool {
	for v, list := range g.lists {
		for _, w := range list {
			if !g.Adjacent(w, v) {
				return false
			}
		}
	}
	return true
}

// Symmetrize adds the reverse of every record and returns how many records
// were added.
func (g *Graph) Symmetrize() int {
	added := 0
	for v := 0; v < g.n; v++ {
		// The list of v may grow while iterating other vertices, never its own.
		for _, w := range g.lists[v] {
			if ok, _ := g.AddEdge(w, v); ok {
				added++
			}
		}
	}
	return added
}

// SortNeighbors sorts every neighbour list in ascending order.
func (g *Graph) SortNeighbors() {
	for _, list := range g.lists {
		slices.Sort(list)
	}
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New(g.n)
	for v := 0; v < g.n; v++ {
		copy(c.rows[v], g.rows[v])
		c.lists[v] = slices.Clone(g.lists[v])
	}
	c.edges = g.edges
	return c
}
