package pipeline

import (
	"context"
	"fmt"

	"github.com/jamestrimble/maximal-clique/pkg/cache"
	"github.com/jamestrimble/maximal-clique/pkg/errors"
	"github.com/jamestrimble/maximal-clique/pkg/graph"
	"github.com/jamestrimble/maximal-clique/pkg/observability"
)

// Render output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// MaxRenderVertices bounds graphs passed to Graphviz; layouts of larger
// graphs take minutes and produce unreadable drawings.
const MaxRenderVertices = 2000

// RenderOptions configures a drawing.
type RenderOptions struct {
	Format    string
	Highlight []int
	Refresh   bool
}

// ValidateFormat checks that a render format is supported.
func ValidateFormat(format string) error {
	switch format {
	case FormatDOT, FormatSVG:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidOption, "invalid format: %q (must be one of: dot, svg)", format)
}

// Render draws g as DOT source or an SVG image. SVGs are cached by graph
// hash; the boolean reports a cache hit.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, opts RenderOptions) ([]byte, bool, error) {
	if opts.Format == "" {
		opts.Format = FormatSVG
	}
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, false, err
	}
	for _, v := range opts.Highlight {
		if v < 0 || v >= g.Order() {
			return nil, false, errors.New(errors.ErrCodeInvalidOption, "highlight vertex %d out of range (n=%d)", v, g.Order())
		}
	}

	dot := graph.ToDOT(g, graph.DOTOptions{Highlight: opts.Highlight})
	if opts.Format == FormatDOT {
		return []byte(dot), false, nil
	}
	if g.Order() > MaxRenderVertices {
		return nil, false, errors.New(errors.ErrCodeUnsupported,
			"graph has %d vertices; drawings are limited to %d", g.Order(), MaxRenderVertices)
	}

	key := r.Keyer.RenderKey(GraphHash(g), cache.RenderKeyOpts{Format: opts.Format, Highlight: opts.Highlight})
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "render")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "render")
	}

	svg, err := graph.RenderSVG(ctx, dot)
	if err != nil {
		return nil, false, fmt.Errorf("render svg: %w", err)
	}
	if err := r.Cache.Set(ctx, key, svg, cache.TTLRender); err == nil {
		observability.Cache().OnCacheSet(ctx, "render", len(svg))
	}
	return svg, false, nil
}
