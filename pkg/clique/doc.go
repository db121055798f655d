// Package clique counts the maximal cliques of an undirected graph using the
// Bron–Kerbosch algorithm with pivoting.
//
// # Overview
//
// A [Searcher] explores frames (R, P, X): R is the clique built so far, P the
// candidates that could still extend it, and X the vertices already explored
// as extensions of R. A frame with P and X both empty reports one maximal
// clique. At every other frame a pivot u maximising |P ∩ N(u)| is chosen from
// X ∪ P, and only the candidates outside N(u) are branched on.
//
// Pivot selection stops scanning as soon as a vertex covers all but one
// candidate. If a vertex of X covers every candidate, the frame is dominated:
// every clique it could produce extends to one containing that excluded
// vertex, so it contributes nothing and is not expanded.
//
// # Memory
//
// Sibling calls at the same recursion depth never overlap in time, so the
// child candidate and excluded sets for depth d live in a per-depth frame that
// the [Searcher] allocates on first use and reuses for every later call at that
// depth. After the deepest level has been reached once, the search performs no
// further allocation.
//
// # Usage
//
//	res, err := clique.Count(ctx, g, clique.Options{Sets: vset.KindBitset})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Steps, res.Cliques)
//
// The count does not depend on vertex numbering, branch order or set backing;
// only [Result.Steps] may differ.
//
// # Concurrency
//
// A Searcher is single-threaded and not safe for concurrent use. Separate
// Searchers may share one read-only graph.
package clique
