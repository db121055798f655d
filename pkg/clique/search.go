package clique

import (
	"context"
	"slices"

	"github.com/jamestrimble/maximal-clique/pkg/graph"
	"github.com/jamestrimble/maximal-clique/pkg/vset"
)

const (
	// pollMask sets how often (in steps) the searcher checks its context
	// and progress callback. Must be a power of two minus one.
	pollMask = 1<<12 - 1

	// DefaultProgressInterval is the number of steps between progress
	// callbacks when Options.ProgressInterval is zero.
	DefaultProgressInterval = 1 << 20
)

// Options configures a Searcher.
type Options struct {
	// Sets selects the candidate/excluded set backing. Empty means
	// vset.DefaultKind.
	Sets vset.Kind

	// Unsorted branches in set iteration order instead of ascending vertex
	// order. The count is unaffected; the step count may change.
	Unsorted bool

	// Progress, if set, is called periodically with the steps taken and the
	// maximal cliques found so far.
	Progress func(steps, cliques int64)

	// ProgressInterval is the approximate number of steps between Progress
	// calls. Zero means DefaultProgressInterval.
	ProgressInterval int64
}

// Result is the outcome of a search.
type Result struct {
	// Cliques is the number of maximal cliques.
	Cliques int64 `json:"cliques"`
	// Steps is the number of recursive calls made. It depends on vertex
	// numbering, branch order and set backing.
	Steps int64 `json:"steps"`
	// MaxDepth is the size of the largest partial clique visited.
	MaxDepth int `json:"max_depth"`
	// Frames is the number of per-depth scratch frames allocated.
	Frames int `json:"frames"`
}

// Searcher counts maximal cliques of one graph. It keeps its scratch frames
// between calls to Count, so repeated counts do not allocate again.
//
// A Searcher is not safe for concurrent use.
type Searcher struct {
	g      *graph.Graph
	opts   Options
	newSet func(n int) vset.Set
	pool   *scratch

	ctx          context.Context
	err          error
	r            []int
	steps        int64
	found        int64
	maxDepth     int
	nextProgress int64
}

// NewSearcher creates a searcher for g. It returns an error if opts names
// an unknown set backing.
func NewSearcher(g *graph.Graph, opts Options) (*Searcher, error) {
	kind, err := vset.ParseKind(string(opts.Sets))
	if err != nil {
		return nil, err
	}
	opts.Sets = kind
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}
	newSet := vset.Factory(kind)
	return &Searcher{
		g:      g,
		opts:   opts,
		newSet: newSet,
		pool:   newScratch(g.Order(), newSet),
		r:      make([]int, 0, g.Order()),
	}, nil
}

// Count runs the search from (R, P, X) = (∅, V, ∅).
//
// The context is polled every few thousand steps; on cancellation Count
// unwinds and returns the context's error with the partial step count.
func (s *Searcher) Count(ctx context.Context) (Result, error) {
	n := s.g.Order()
	s.ctx, s.err = ctx, nil
	s.r = s.r[:0]
	s.steps, s.found, s.maxDepth = 0, 0, 0
	s.nextProgress = s.opts.ProgressInterval

	p := s.newSet(n)
	vset.Fill(p)
	x := s.newSet(n)

	cliques := s.expand(p, x)
	res := Result{
		Cliques:  cliques,
		Steps:    s.steps,
		MaxDepth: s.maxDepth,
		Frames:   s.pool.depth(),
	}
	s.ctx = nil
	if s.err != nil {
		return res, s.err
	}
	return res, nil
}

// Steps returns the number of recursive calls made by the current or most
// recent Count.
func (s *Searcher) Steps() int64 { return s.steps }

// expand counts the maximal cliques that extend the current R using
// candidates p and excluded vertices x. It mutates p and x: every branched
// vertex moves from p to x.
func (s *Searcher) expand(p, x vset.Set) int64 {
	s.steps++
	if s.steps&pollMask == 0 {
		s.poll()
	}
	if s.err != nil {
		return 0
	}

	depth := len(s.r)
	if depth > s.maxDepth {
		s.maxDepth = depth
	}
	if p.Len() == 0 {
		if x.Len() == 0 {
			s.found++
			return 1
		}
		return 0
	}

	f := s.pool.at(depth)
	pv, scan := s.choosePivot(p, x, f.scan)
	f.scan = scan
	if pv.Dominated {
		return 0
	}

	f.branch = p.AppendDifference(f.branch[:0], s.g.Neighborhood(pv.Vertex))
	if len(f.branch) == 0 {
		panic("clique: empty branching set after pivot selection")
	}
	if !s.opts.Unsorted {
		slices.Sort(f.branch)
	}

	var count int64
	for _, v := range f.branch {
		nb := s.g.Neighborhood(v)
		p.Intersect(nb, f.p)
		x.Intersect(nb, f.x)

		s.r = append(s.r, v)
		count += s.expand(f.p, f.x)
		s.r = s.r[:len(s.r)-1]
		if s.err != nil {
			return count
		}

		p.Remove(v)
		x.Add(v)
	}
	return count
}

// poll checks for cancellation and emits progress.
func (s *Searcher) poll() {
	if err := s.ctx.Err(); err != nil {
		s.err = err
		return
	}
	if s.opts.Progress != nil && s.steps >= s.nextProgress {
		s.opts.Progress(s.steps, s.found)
		s.nextProgress = s.steps + s.opts.ProgressInterval
	}
}

// Count is a convenience wrapper that builds a Searcher and runs it once.
func Count(ctx context.Context, g *graph.Graph, opts Options) (Result, error) {
	s, err := NewSearcher(g, opts)
	if err != nil {
		return Result{}, err
	}
	return s.Count(ctx)
}
