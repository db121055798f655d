// Package api serves clique counting over HTTP.
//
// Routes:
//
//	GET  /healthz      liveness and build info
//	GET  /metrics      Prometheus metrics (when configured)
//	POST /v1/count     count the maximal cliques of the edge list in the body
//	POST /v1/render    draw the edge list in the body as SVG or DOT
//
// Request bodies use the same edge-list format as the CLI and may be
// compressed with Content-Encoding gzip, zstd or lz4.
package api

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/jamestrimble/maximal-clique/pkg/errors"
	"github.com/jamestrimble/maximal-clique/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// serve context is canceled.
const shutdownTimeout = 10 * time.Second

// Config configures a Server.
type Config struct {
	Addr string
	// RateLimit is the sustained request rate for /v1 routes, per second.
	// Zero disables limiting.
	RateLimit float64
	Burst     int
	// MaxBodyBytes bounds request bodies. Zero means no limit.
	MaxBodyBytes int64
	// MaxVertices bounds the declared vertex count of posted graphs.
	MaxVertices int
	// RequestTimeout bounds a single count or render.
	RequestTimeout time.Duration
}

// Server is the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	cfg     Config
	logger  *log.Logger
	limiter *rate.Limiter
	metrics http.Handler
	router  chi.Router
}

// New creates a server that counts with runner. metrics, when non-nil, is
// mounted at /metrics.
func New(runner *pipeline.Runner, cfg Config, logger *log.Logger, metrics http.Handler) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:  runner,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Use(s.limitBody)
		r.Post("/count", s.handleCount)
		r.Post("/render", s.handleRender)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: errorDetail{
			Code:    string(errors.ErrCodeInvalidInput),
			Message: "method " + r.Method + " not allowed for " + r.URL.Path,
		}})
	})
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on cfg.Addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("serving", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
