package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jamestrimble/maximal-clique/pkg/errors"
	"github.com/jamestrimble/maximal-clique/pkg/observability"
)

// observe logs each request and reports it to the API hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.API().OnRequest(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d.Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// routePattern returns the matched chi pattern, keeping metric labels
// bounded for unknown paths.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// rateLimit rejects requests beyond the configured rate with 429.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		res := s.limiter.Reserve()
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			observability.API().OnRateLimited(r.Context(), routePattern(r))
			retry := int(math.Ceil(delay.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			writeError(w, &errors.RateLimitedError{RetryAfter: retry, Message: "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitBody caps request bodies at MaxBodyBytes.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.MaxBodyBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}
