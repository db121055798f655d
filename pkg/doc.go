// Package pkg provides the core libraries for counting maximal cliques.
//
// # Overview
//
// cliquecount reads a graph as an edge list and counts its maximal cliques
// with the Bron–Kerbosch algorithm and Tomita-style pivoting, reporting the
// number of recursive calls alongside the count. The pkg directory is
// organized into three areas:
//
//  1. Domain: [graph], [vset], [clique]
//  2. Data: [io], [cache]
//  3. Orchestration: [pipeline], [config], [errors], [observability]
//
// # Architecture
//
// The typical data flow:
//
//	edge list file or stream
//	         ↓
//	    [io] package (parse, decompress, validate)
//	         ↓
//	    [graph] package (adjacency lists + bitset rows, degree order)
//	         ↓
//	    [clique] package (pivoting search over [vset] sets)
//	         ↓
//	    steps and clique count
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/jamestrimble/maximal-clique/pkg/clique"
//	    "github.com/jamestrimble/maximal-clique/pkg/graph"
//	)
//
//	g := graph.Random(100, 0.5, 1)
//	g, _ = graph.DegreeOrder(g)
//	res, _ := clique.Count(context.Background(), g, clique.Options{})
//	fmt.Println(res.Steps)
//	fmt.Println(res.Cliques)
//
// # Main Packages
//
// [graph] - Graphs on vertices 0..n-1 holding both neighbour lists and
// bitset rows, with degree reordering, random generation and Graphviz output.
//
// [vset] - Vertex sets with three interchangeable backings: generation
// stamps, dense bitsets and roaring bitmaps.
//
// [clique] - The counting search itself, with cancellation and progress.
//
// [io] - The edge-list format, with gzip, zstd and lz4 compression.
//
// [cache] - Result and drawing caches backed by files, Redis or MongoDB.
//
// [pipeline] - Load → reorder → count with caching, used by the CLI and the
// HTTP API so both behave the same.
//
// [config] - TOML or YAML configuration with validation.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hooks for metrics, with a Prometheus implementation.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -short ./pkg/...             # Skip Graphviz rendering
//	go test -run Example ./pkg/...       # Examples only
//
// [graph]: https://pkg.go.dev/github.com/jamestrimble/maximal-clique/pkg/graph
// [vset]: https://pkg.go.dev/github.com/jamestrimble/maximal-clique/pkg/vset
// [clique]: https://pkg.go.dev/github.com/jamestrimble/maximal-clique/pkg/clique
// [io]: https://pkg.go.dev/github.com/jamestrimble/maximal-clique/pkg/io
// [cache]: https://pkg.go.dev/github.com/jamestrimble/maximal-clique/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/jamestrimble/maximal-clique/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/jamestrimble/maximal-clique/pkg/config
// [errors]: https://pkg.go.dev/github.com/jamestrimble/maximal-clique/pkg/errors
// [observability]: https://pkg.go.dev/github.com/jamestrimble/maximal-clique/pkg/observability
package pkg
