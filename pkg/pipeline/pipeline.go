// Package pipeline runs the load → reorder → count pipeline with caching.
//
// The CLI and the HTTP API both go through a [Runner], so they agree on
// defaults, cache keys, logging, and metrics.
//
// # Stages
//
//  1. Load: parse an edge list from a file or stream ([pkg/io])
//  2. Reorder: relabel vertices by ascending degree (unless disabled)
//  3. Count: Bron–Kerbosch with pivoting ([pkg/clique])
//
// A counted result is cached under the graph's content hash and the search
// options, so re-running the same graph returns instantly.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, "graph.txt", pipeline.Options{Sets: "bitset"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Steps)
//	fmt.Println(res.Cliques)
//
// [pkg/io]: github.com/jamestrimble/maximal-clique/pkg/io
// [pkg/clique]: github.com/jamestrimble/maximal-clique/pkg/clique
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jamestrimble/maximal-clique/pkg/cache"
	"github.com/jamestrimble/maximal-clique/pkg/clique"
	"github.com/jamestrimble/maximal-clique/pkg/errors"
	cio "github.com/jamestrimble/maximal-clique/pkg/io"
	"github.com/jamestrimble/maximal-clique/pkg/vset"
)

// DefaultJobs is the number of inputs counted concurrently by ExecuteAll.
const DefaultJobs = 4

// Options configures one pipeline run. It is also the JSON body of an API
// count request's query parameters.
type Options struct {
	// Sets is the vertex-set backing: "stamp", "bitset" or "roaring".
	Sets string `json:"sets,omitempty"`
	// NoReorder keeps the input vertex numbering.
	NoReorder bool `json:"no_reorder,omitempty"`
	// NoSort branches in set order instead of ascending vertex order.
	NoSort bool `json:"no_sort,omitempty"`
	// Symmetrize adds the reverse of every record when loading.
	Symmetrize bool `json:"symmetrize,omitempty"`
	// MaxVertices bounds the declared vertex count of loaded graphs.
	MaxVertices int `json:"max_vertices,omitempty"`
	// Refresh skips the cache lookup but still stores the new result.
	Refresh bool `json:"refresh,omitempty"`

	// Progress is called periodically during the search.
	Progress func(steps, cliques int64) `json:"-"`
	// ProgressInterval is the number of steps between Progress calls.
	ProgressInterval int64 `json:"-"`
	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	kind, err := vset.ParseKind(o.Sets)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOption, err, "sets")
	}
	o.Sets = string(kind)
	if o.MaxVertices < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "max_vertices must not be negative")
	}
	if o.ProgressInterval < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "progress interval must not be negative")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ReadOptions returns the loader options.
func (o *Options) ReadOptions() cio.ReadOptions {
	return cio.ReadOptions{Symmetrize: o.Symmetrize, MaxVertices: o.MaxVertices}
}

// SearchOptions returns the searcher options.
func (o *Options) SearchOptions() clique.Options {
	return clique.Options{
		Sets:             vset.Kind(o.Sets),
		Unsorted:         o.NoSort,
		Progress:         o.Progress,
		ProgressInterval: o.ProgressInterval,
	}
}

// ResultKeyOpts returns cache key options for the search result.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Sets:       o.Sets,
		Reorder:    !o.NoReorder,
		Sort:       !o.NoSort,
		Symmetrize: o.Symmetrize,
	}
}

// Result is the outcome of one pipeline run.
type Result struct {
	RunID     string `json:"run_id"`
	Source    string `json:"source,omitempty"`
	GraphHash string `json:"graph_hash"`

	Vertices int `json:"vertices"`
	Records  int `json:"records"`

	Cliques  int64 `json:"cliques"`
	Steps    int64 `json:"steps"`
	MaxDepth int   `json:"max_depth"`

	Sets      string `json:"sets"`
	Reordered bool   `json:"reordered"`
	Sorted    bool   `json:"sorted"`

	Warnings []string `json:"warnings,omitempty"`
	CacheHit bool     `json:"cache_hit"`
	Stats    Stats    `json:"stats"`
}

// Stats holds stage timings.
type Stats struct {
	LoadTime    time.Duration `json:"load_ns"`
	ReorderTime time.Duration `json:"reorder_ns"`
	SearchTime  time.Duration `json:"search_ns"`
}

// Total returns the summed stage time.
func (s Stats) Total() time.Duration {
	return s.LoadTime + s.ReorderTime + s.SearchTime
}

// cachedResult is what the cache stores for a search.
type cachedResult struct {
	Cliques  int64 `json:"cliques"`
	Steps    int64 `json:"steps"`
	MaxDepth int   `json:"max_depth"`
}
