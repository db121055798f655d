package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamestrimble/maximal-clique/pkg/cache"
	"github.com/jamestrimble/maximal-clique/pkg/graph"
	cio "github.com/jamestrimble/maximal-clique/pkg/io"
	"github.com/jamestrimble/maximal-clique/pkg/pipeline"
)

const square = "4\n8\n0,1\n1,0\n1,2\n2,1\n2,3\n3,2\n3,0\n0,3\n"

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(c, cache.NewScopedKeyer(nil, "api:"), logger)
	t.Cleanup(func() { runner.Close() })
	return New(runner, cfg, logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "# metrics\n")
	}))
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestMetricsMounted(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# metrics\n", rec.Body.String())
}

func TestCount(t *testing.T) {
	s := newTestServer(t, Config{})

	for _, sets := range []string{"stamp", "bitset", "roaring"} {
		t.Run(sets, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/count?sets="+sets, strings.NewReader(square))
			rec := do(t, s, req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var res pipeline.Result
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, int64(4), res.Cliques)
			assert.Positive(t, res.Steps)
			assert.Equal(t, sets, res.Sets)
			assert.True(t, res.Reordered)
		})
	}
}

func TestCountOptions(t *testing.T) {
	s := newTestServer(t, Config{})
	req := httptest.NewRequest(http.MethodPost, "/v1/count?reorder=false&sort=false", strings.NewReader(square))
	rec := do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Reordered)
	assert.False(t, res.Sorted)
	assert.Equal(t, int64(4), res.Cliques)
}

func TestCountCached(t *testing.T) {
	s := newTestServer(t, Config{})
	post := func() pipeline.Result {
		rec := do(t, s, httptest.NewRequest(http.MethodPost, "/v1/count", strings.NewReader(square)))
		require.Equal(t, http.StatusOK, rec.Code)
		var res pipeline.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		return res
	}
	first, second := post(), post()
	assert.False(t, first.CacheHit)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Steps, second.Steps)
}

func TestCountGzipBody(t *testing.T) {
	s := newTestServer(t, Config{})
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(square))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/count", &buf)
	req.Header.Set("Content-Encoding", "gzip")
	rec := do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCountErrors(t *testing.T) {
	s := newTestServer(t, Config{MaxVertices: 10, MaxBodyBytes: 64})

	tests := []struct {
		name   string
		target string
		body   string
		enc    string
		status int
		code   string
	}{
		{"bad sets", "/v1/count?sets=hash", square, "", http.StatusBadRequest, "INVALID_OPTION"},
		{"bad bool", "/v1/count?reorder=maybe", square, "", http.StatusBadRequest, "INVALID_OPTION"},
		{"bad encoding", "/v1/count", square, "br", http.StatusBadRequest, "INVALID_OPTION"},
		{"bad record", "/v1/count", "2\n1\n0;1\n", "", http.StatusBadRequest, "INVALID_FORMAT"},
		{"self loop", "/v1/count", "2\n1\n1,1\n", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"too many vertices", "/v1/count", "11\n0\n", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"body too large", "/v1/count", "3\n40\n" + strings.Repeat("0,1\n", 40), "", http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body))
			if tt.enc != "" {
				req.Header.Set("Content-Encoding", tt.enc)
			}
			rec := do(t, s, req)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestCountTimeout(t *testing.T) {
	s := newTestServer(t, Config{RequestTimeout: time.Nanosecond})
	req := httptest.NewRequest(http.MethodPost, "/v1/count", randomEdgeList(t, 200, 0.5))
	rec := do(t, s, req)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code, rec.Body.String())
	assert.Equal(t, "TIMEOUT", decodeError(t, rec).Code)
}

func randomEdgeList(t *testing.T, n int, p float64) io.Reader {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, cio.WriteEdgeList(graph.Random(n, p, 1), &buf))
	return &buf
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Config{RateLimit: 0.001, Burst: 1})

	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/v1/count", strings.NewReader(square)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, httptest.NewRequest(http.MethodPost, "/v1/count", strings.NewReader(square)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decodeError(t, rec).Code)

	// Health checks are not limited.
	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRenderDOT(t *testing.T) {
	s := newTestServer(t, Config{})
	req := httptest.NewRequest(http.MethodPost, "/v1/render?format=dot&highlight=0,1", strings.NewReader(square))
	rec := do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/vnd.graphviz")
	assert.Contains(t, rec.Body.String(), "graph G {")
	assert.Contains(t, rec.Body.String(), "0 -- 1")
	assert.Contains(t, rec.Body.String(), "lightblue")
}

func TestRenderErrors(t *testing.T) {
	s := newTestServer(t, Config{})
	tests := []struct {
		name   string
		target string
	}{
		{"bad format", "/v1/render?format=png"},
		{"bad highlight", "/v1/render?format=dot&highlight=a"},
		{"highlight out of range", "/v1/render?format=dot&highlight=9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(square)))
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, "INVALID_OPTION", decodeError(t, rec).Code)
		})
	}
}

func TestNotFoundAndMethod(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/v2/nothing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/v1/count", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServeShutdown(t *testing.T) {
	s := newTestServer(t, Config{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
