// Package graph provides the immutable undirected-graph store consumed by the
// maximal clique search.
//
// # Overview
//
// A [Graph] holds n vertices labelled 0..n-1. Adjacency is kept twice:
//
//   - a bit matrix, one row of ⌈n/64⌉ words per vertex, for O(1) membership
//     and word-parallel intersection
//   - a neighbour list per vertex, for enumeration when the neighbourhood is
//     smaller than the set it is intersected with
//
// Both views of a vertex are exposed together as a [Neighborhood].
//
// # Building Graphs
//
// Create a graph with [New] and insert adjacency records with [Graph.AddEdge].
// Records are directed and inserted as given: the matrix is symmetric only if
// both (v,w) and (w,v) are added. Use [Graph.AddUndirected] to insert both
// directions at once, and [Graph.Symmetric] to check the result:
//
//	g := graph.New(4)
//	g.AddUndirected(0, 1)
//	g.AddUndirected(1, 2)
//
// Repeated records are collapsed and self-loops are rejected with [ErrSelfLoop].
//
// # Vertex Ordering
//
// [DegreeOrder] relabels vertices by ascending degree. It never changes the
// number of maximal cliques; it only changes how much work the search does.
//
// # Rendering
//
// [ToDOT] converts a graph to Graphviz DOT, and [RenderSVG] renders DOT to SVG
// in-process using github.com/goccy/go-graphviz.
//
// # Concurrency
//
// A Graph is not safe for concurrent mutation. Once built it is read-only and
// may be shared by any number of searches.
package graph
