// Package observability provides hooks for metrics and tracing.
//
// Library packages emit events through the hooks registered here instead of
// depending on a metrics backend. The serve command registers Prometheus
// implementations at startup; everything else runs with no-op hooks.
//
// Register hooks at application startup:
//
//	prom, err := observability.NewPrometheus("cliquecount", registry)
//	if err != nil {
//	    return err
//	}
//	prom.Install()
//
// Libraries call hooks to emit events:
//
//	observability.Search().OnSearchStart(ctx, g.Order(), g.Records(), "stamp")
//	// ... count ...
//	observability.Search().OnSearchComplete(ctx, steps, cliques, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// SearchHooks receives events from graph loading and clique counting.
type SearchHooks interface {
	// OnLoad records a parsed input graph.
	OnLoad(ctx context.Context, vertices, records int, duration time.Duration, err error)

	// OnSearchStart records the start of a count.
	OnSearchStart(ctx context.Context, vertices, records int, sets string)

	// OnSearchProgress is called periodically while a count runs.
	OnSearchProgress(ctx context.Context, steps, cliques int64)

	// OnSearchComplete records a finished, failed, or canceled count.
	OnSearchComplete(ctx context.Context, steps, cliques int64, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit. keyType is "result" or "render".
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// APIHooks receives events from the HTTP API.
type APIHooks interface {
	// OnRequest records a served request.
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)

	// OnRateLimited records a request rejected by the rate limiter.
	OnRateLimited(ctx context.Context, route string)
}

// NoopSearchHooks is a no-op implementation of SearchHooks.
type NoopSearchHooks struct{}

func (NoopSearchHooks) OnLoad(context.Context, int, int, time.Duration, error)               {}
func (NoopSearchHooks) OnSearchStart(context.Context, int, int, string)                      {}
func (NoopSearchHooks) OnSearchProgress(context.Context, int64, int64)                       {}
func (NoopSearchHooks) OnSearchComplete(context.Context, int64, int64, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopAPIHooks is a no-op implementation of APIHooks.
type NoopAPIHooks struct{}

func (NoopAPIHooks) OnRequest(context.Context, string, string, int, time.Duration) {}
func (NoopAPIHooks) OnRateLimited(context.Context, string)                         {}

var (
	searchHooks SearchHooks = NoopSearchHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	apiHooks    APIHooks    = NoopAPIHooks{}
	hooksMu     sync.RWMutex
)

// SetSearchHooks registers search hooks. A nil argument is ignored.
func SetSearchHooks(h SearchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		searchHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil argument is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetAPIHooks registers API hooks. A nil argument is ignored.
func SetAPIHooks(h APIHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		apiHooks = h
	}
}

// Search returns the registered search hooks.
func Search() SearchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return searchHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// API returns the registered API hooks.
func API() APIHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return apiHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	searchHooks = NoopSearchHooks{}
	cacheHooks = NoopCacheHooks{}
	apiHooks = NoopAPIHooks{}
}
