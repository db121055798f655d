package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	stdio "io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jamestrimble/maximal-clique/pkg/cache"
	"github.com/jamestrimble/maximal-clique/pkg/clique"
	"github.com/jamestrimble/maximal-clique/pkg/errors"
	"github.com/jamestrimble/maximal-clique/pkg/graph"
	cio "github.com/jamestrimble/maximal-clique/pkg/io"
	"github.com/jamestrimble/maximal-clique/pkg/observability"
)

// Runner executes the pipeline with caching.
//
// The Runner holds no per-run state, so one Runner may serve many
// goroutines. Each search itself is single-threaded.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching; a nil keyer
// uses the default keyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute loads the edge list at path and counts its maximal cliques.
func (r *Runner) Execute(ctx context.Context, path string, opts Options) (*Result, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}
	start := time.Now()
	el, err := cio.ImportFile(path, opts.ReadOptions())
	observability.Search().OnLoad(ctx, order(el), records(el), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return r.finish(ctx, el, path, time.Since(start), opts)
}

// ExecuteReader is Execute for an edge list read from rd.
func (r *Runner) ExecuteReader(ctx context.Context, rd stdio.Reader, source string, opts Options) (*Result, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}
	start := time.Now()
	el, err := cio.ReadEdgeList(rd, opts.ReadOptions())
	observability.Search().OnLoad(ctx, order(el), records(el), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return r.finish(ctx, el, source, time.Since(start), opts)
}

// ExecuteAll runs Execute for every path, at most jobs at a time, and
// returns results in input order. The first failure cancels the rest.
func (r *Runner) ExecuteAll(ctx context.Context, paths []string, jobs int, opts Options) ([]*Result, error) {
	if jobs <= 0 {
		jobs = DefaultJobs
	}
	results := make([]*Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			res, err := r.Execute(gctx, path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Count counts the maximal cliques of an already loaded graph.
func (r *Runner) Count(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}
	return r.count(ctx, g, opts)
}

func (r *Runner) finish(ctx context.Context, el *cio.EdgeList, source string, loadTime time.Duration, opts Options) (*Result, error) {
	logger := opts.Logger.With("source", source)
	for _, w := range el.Warnings() {
		logger.Warn(w)
	}
	logger.Debug("loaded graph",
		"vertices", el.Graph.Order(),
		"records", el.Graph.Records(),
		"symmetrized", el.Added,
		"duration", loadTime)

	res, err := r.count(ctx, el.Graph, opts)
	if err != nil {
		return nil, err
	}
	res.Source = source
	res.Warnings = el.Warnings()
	res.Stats.LoadTime = loadTime
	return res, nil
}

func (r *Runner) count(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	res := &Result{
		RunID:     uuid.NewString(),
		GraphHash: GraphHash(g),
		Vertices:  g.Order(),
		Records:   g.Records(),
		Sets:      opts.Sets,
		Reordered: !opts.NoReorder,
		Sorted:    !opts.NoSort,
	}
	logger := opts.Logger.With("run", res.RunID[:8])

	key := r.Keyer.ResultKey(res.GraphHash, opts.ResultKeyOpts())
	if !opts.Refresh {
		var cached cachedResult
		err := cache.GetJSON(ctx, r.Cache, key, &cached)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "result")
			res.Cliques, res.Steps, res.MaxDepth = cached.Cliques, cached.Steps, cached.MaxDepth
			res.CacheHit = true
			logger.Debug("result from cache", "cliques", res.Cliques, "steps", res.Steps)
			return res, nil
		}
		if !stderrors.Is(err, cache.ErrCacheMiss) {
			logger.Warn("cache lookup failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "result")
	}

	work := g
	if !opts.NoReorder {
		start := time.Now()
		work, _ = graph.DegreeOrder(g)
		res.Stats.ReorderTime = time.Since(start)
		logger.Debug("reordered by degree", "duration", res.Stats.ReorderTime)
	}

	search := opts.SearchOptions()
	user := search.Progress
	search.Progress = func(steps, cliques int64) {
		observability.Search().OnSearchProgress(ctx, steps, cliques)
		if user != nil {
			user(steps, cliques)
		}
	}

	observability.Search().OnSearchStart(ctx, g.Order(), g.Records(), opts.Sets)
	start := time.Now()
	out, err := clique.Count(ctx, work, search)
	res.Stats.SearchTime = time.Since(start)
	observability.Search().OnSearchComplete(ctx, out.Steps, out.Cliques, res.Stats.SearchTime, err)
	if err != nil {
		logger.Debug("search stopped", "steps", out.Steps, "error", err)
		return nil, errors.FromContext(err)
	}
	res.Cliques, res.Steps, res.MaxDepth = out.Cliques, out.Steps, out.MaxDepth

	logger.Info("counted maximal cliques",
		"cliques", res.Cliques,
		"steps", res.Steps,
		"max_depth", res.MaxDepth,
		"duration", res.Stats.SearchTime)

	data, _ := json.Marshal(cachedResult{Cliques: res.Cliques, Steps: res.Steps, MaxDepth: res.MaxDepth})
	if err := r.Cache.Set(ctx, key, data, cache.TTLResult); err != nil {
		logger.Warn("cache store failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "result", len(data))
	}
	return res, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) prepare(opts *Options) error {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	return opts.ValidateAndSetDefaults()
}

// GraphHash returns the content hash of g in edge-list form. Two graphs with
// the same records in the same order hash equally.
func GraphHash(g *graph.Graph) string {
	var buf bytes.Buffer
	_ = cio.WriteEdgeList(g, &buf)
	return cache.Hash(buf.Bytes())
}

func order(el *cio.EdgeList) int {
	if el == nil {
		return 0
	}
	return el.Graph.Order()
}

func records(el *cio.EdgeList) int {
	if el == nil {
		return 0
	}
	return el.Graph.Records()
}
