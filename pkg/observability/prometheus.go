package observability

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements SearchHooks, CacheHooks and APIHooks with
// Prometheus collectors.
type Prometheus struct {
	loads          *prometheus.CounterVec
	searches       *prometheus.CounterVec
	searchDuration prometheus.Histogram
	searchSteps    prometheus.Histogram
	stepsTotal     prometheus.Counter
	cliquesTotal   prometheus.Counter
	searchesActive prometheus.Gauge

	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     *prometheus.CounterVec
}

// NewPrometheus creates the collectors under namespace and registers them
// with reg. A nil reg means prometheus.DefaultRegisterer.
func NewPrometheus(namespace string, reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &Prometheus{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_loads_total",
			Help:      "Edge lists parsed, by status.",
		}, []string{"status"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Clique searches finished, by status.",
		}, []string{"status"}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall time of clique searches.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		searchSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_steps",
			Help:      "Recursive calls per finished search.",
			Buckets:   prometheus.ExponentialBuckets(16, 8, 10),
		}),
		stepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_steps_total",
			Help:      "Recursive calls made by finished searches.",
		}),
		cliquesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cliques_total",
			Help:      "Maximal cliques counted by finished searches.",
		}),
		searchesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "searches_active",
			Help:      "Searches currently running.",
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache lookups and writes, by key type and event.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache, by key type.",
		}, []string{"key_type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "HTTP requests rejected by the rate limiter, by route.",
		}, []string{"route"}),
	}

	for _, c := range []prometheus.Collector{
		p.loads, p.searches, p.searchDuration, p.searchSteps, p.stepsTotal, p.cliquesTotal, p.searchesActive,
		p.cacheEvents, p.cacheBytes,
		p.requests, p.requestDuration, p.rateLimited,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Install registers p as the search, cache and API hooks.
func (p *Prometheus) Install() {
	SetSearchHooks(p)
	SetCacheHooks(p)
	SetAPIHooks(p)
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	return "error"
}

func (p *Prometheus) OnLoad(_ context.Context, _, _ int, _ time.Duration, err error) {
	p.loads.WithLabelValues(status(err)).Inc()
}

func (p *Prometheus) OnSearchStart(context.Context, int, int, string) {
	p.searchesActive.Inc()
}

func (p *Prometheus) OnSearchProgress(context.Context, int64, int64) {}

func (p *Prometheus) OnSearchComplete(_ context.Context, steps, cliques int64, d time.Duration, err error) {
	p.searchesActive.Dec()
	p.searches.WithLabelValues(status(err)).Inc()
	if err != nil {
		return
	}
	p.searchDuration.Observe(d.Seconds())
	p.searchSteps.Observe(float64(steps))
	p.stepsTotal.Add(float64(steps))
	p.cliquesTotal.Add(float64(cliques))
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheEvents.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnRequest(_ context.Context, method, route string, code int, d time.Duration) {
	p.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	p.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (p *Prometheus) OnRateLimited(_ context.Context, route string) {
	p.rateLimited.WithLabelValues(route).Inc()
}

var (
	_ SearchHooks = (*Prometheus)(nil)
	_ CacheHooks  = (*Prometheus)(nil)
	_ APIHooks    = (*Prometheus)(nil)
)
