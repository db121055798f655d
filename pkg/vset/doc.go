// Package vset provides mutable sets of small integers used as the candidate
// and excluded sets of a clique search.
//
// # Overview
//
// A [Set] holds vertices in the range [0, n). Every backing supports
// membership, insertion, removal and a bulk [Set.Clear] in amortized O(1)
// (or O(n/64) for word bitsets), plus intersection against a vertex
// neighbourhood, either materialised into another set or counted only.
//
// # Backings
//
// Three interchangeable backings are selected at construction time through
// [Kind]:
//
//   - [KindStamp]: a generation-stamped membership array paired with a dense
//     element list (swap-remove). Clear bumps the generation instead of
//     touching n words. Intersections iterate whichever side is smaller.
//   - [KindBitset]: packed 64-bit words. Intersections are word-parallel AND,
//     counts are popcounts, differences are AND-NOT. Best for dense graphs.
//   - [KindRoaring]: a compressed roaring bitmap, for very large and sparse
//     vertex ranges.
//
// Iteration order is unspecified and differs across backings. Callers that
// need a deterministic order must sort the output of [Set.AppendTo].
//
// # Neighbourhoods
//
// Intersections take a [github.com/jamestrimble/maximal-clique/pkg/graph.Neighborhood],
// which exposes a vertex's adjacency both as a bit row (O(1) membership) and
// as a neighbour list (enumeration).
//
// # Concurrency
//
// Sets are not safe for concurrent use.
package vset
