package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jamestrimble/maximal-clique/pkg/buildinfo"
	"github.com/jamestrimble/maximal-clique/pkg/errors"
	cio "github.com/jamestrimble/maximal-clique/pkg/io"
	"github.com/jamestrimble/maximal-clique/pkg/pipeline"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and a JSON error body. Internal
// errors are not described to the client.
func writeError(w http.ResponseWriter, err error) {
	var mbe *http.MaxBytesError
	if stderrors.As(err, &mbe) {
		err = errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", mbe.Limit)
	}
	status := http.StatusTooManyRequests
	code := errors.ErrCodeRateLimited
	var rl *errors.RateLimitedError
	if !stderrors.As(err, &rl) {
		status = errors.HTTPStatus(err)
		code = errors.GetCode(err)
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := strings.TrimPrefix(err.Error(), string(code)+": ")
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: string(code), Message: msg}})
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

// handleCount counts the maximal cliques of the posted edge list.
//
// Query parameters: sets, reorder, sort, symmetrize, refresh.
func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	opts, err := s.countOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := requestBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer body.Close()

	ctx, cancel := s.requestContext(r.Context())
	defer cancel()

	opts.Logger = s.logger.With("request_id", middleware.GetReqID(ctx))
	res, err := s.runner.ExecuteReader(ctx, body, "request", opts)
	if err != nil {
		s.logFailure(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleRender draws the posted edge list.
//
// Query parameters: format (svg or dot), highlight (comma-separated
// vertices), symmetrize, refresh.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	symmetrize, err := boolParam(q.Get("symmetrize"), "symmetrize", false)
	if err != nil {
		writeError(w, err)
		return
	}
	refresh, err := boolParam(q.Get("refresh"), "refresh", false)
	if err != nil {
		writeError(w, err)
		return
	}
	highlight, err := intList(q.Get("highlight"))
	if err != nil {
		writeError(w, err)
		return
	}
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	body, err := requestBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer body.Close()

	el, err := cio.ReadEdgeList(body, cio.ReadOptions{Symmetrize: symmetrize, MaxVertices: s.cfg.MaxVertices})
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r.Context())
	defer cancel()

	data, cached, err := s.runner.Render(ctx, el.Graph, pipeline.RenderOptions{
		Format:    format,
		Highlight: highlight,
		Refresh:   refresh,
	})
	if err != nil {
		s.logFailure(r, errors.FromContext(err))
		writeError(w, errors.FromContext(err))
		return
	}

	contentType := "image/svg+xml"
	if format == pipeline.FormatDOT {
		contentType = "text/vnd.graphviz; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Cache", cacheHeader(cached))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) countOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Sets:        q.Get("sets"),
		MaxVertices: s.cfg.MaxVertices,
	}
	reorder, err := boolParam(q.Get("reorder"), "reorder", true)
	if err != nil {
		return opts, err
	}
	sorted, err := boolParam(q.Get("sort"), "sort", true)
	if err != nil {
		return opts, err
	}
	if opts.Symmetrize, err = boolParam(q.Get("symmetrize"), "symmetrize", false); err != nil {
		return opts, err
	}
	if opts.Refresh, err = boolParam(q.Get("refresh"), "refresh", false); err != nil {
		return opts, err
	}
	opts.NoReorder, opts.NoSort = !reorder, !sorted
	return opts, opts.ValidateAndSetDefaults()
}

func (s *Server) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.RequestTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *Server) logFailure(r *http.Request, err error) {
	if errors.HTTPStatus(err) >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", middleware.GetReqID(r.Context()))
		return
	}
	s.logger.Debug("request rejected", "path", r.URL.Path, "error", err)
}

// requestBody returns the request body, decoded per Content-Encoding.
func requestBody(r *http.Request) (io.ReadCloser, error) {
	var c cio.Compression
	switch enc := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Encoding"))); enc {
	case "", "identity":
		return r.Body, nil
	case "gzip":
		c = cio.CompressionGzip
	case "zstd":
		c = cio.CompressionZstd
	case "lz4":
		c = cio.CompressionLZ4
	default:
		return nil, errors.New(errors.ErrCodeInvalidOption, "unsupported Content-Encoding %q", enc)
	}
	rc, err := cio.NewReader(r.Body, c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode body")
	}
	return rc, nil
}

func boolParam(s, name string, def bool) (bool, error) {
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidOption, "%s: %q is not a boolean", name, s)
	}
	return b, nil
}

func intList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidOption, "highlight: %q is not a vertex", p)
		}
		out = append(out, v)
	}
	return out, nil
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
