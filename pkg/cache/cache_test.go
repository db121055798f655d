package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var errTransient = errors.New("connection refused")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get missing = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "k1", []byte("hello"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k1")
	if err != nil || !hit || string(data) != "hello" {
		t.Fatalf("Get k1 = %q, %v, %v", data, hit, err)
	}

	// Overwrite
	if err := c.Set(ctx, "k1", []byte("world"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, _, _ := c.Get(ctx, "k1"); string(data) != "world" {
		t.Errorf("Get after overwrite = %q", data)
	}

	if err := c.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k1"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "k1"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("entry should be live before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should expire")
	}
	if entries, _, _ := c.Stats(); entries != 0 {
		t.Errorf("expired entry should be removed, %d left", entries)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry = hit %v, err %v; want clean miss", hit, err)
	}
}

func TestFileCacheStatsAndClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	entries, size, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if entries != 3 || size == 0 {
		t.Errorf("Stats = %d entries, %d bytes", entries, size)
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if entries, _, _ := c.Stats(); entries != 0 {
		t.Errorf("Stats after Clear = %d entries", entries)
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("Clear should keep the root: %v", err)
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	type payload struct {
		Cliques int64 `json:"cliques"`
	}

	var got payload
	if err := GetJSON(ctx, c, "p", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetJSON missing = %v, want ErrCacheMiss", err)
	}

	if err := SetJSON(ctx, c, "p", payload{Cliques: 42}, 0); err != nil {
		t.Fatal(err)
	}
	if err := GetJSON(ctx, c, "p", &got); err != nil || got.Cliques != 42 {
		t.Errorf("GetJSON = %+v, %v", got, err)
	}

	if err := c.Set(ctx, "p", []byte("not json"), 0); err != nil {
		t.Fatal(err)
	}
	if err := GetJSON(ctx, c, "p", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetJSON undecodable = %v, want ErrCacheMiss", err)
	}
	if _, hit, _ := c.Get(ctx, "p"); hit {
		t.Error("undecodable entry should be deleted")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := ResultKeyOpts{Sets: "stamp", Reorder: true, Sort: true}

	if k.ResultKey("g1", base) != k.ResultKey("g1", base) {
		t.Error("ResultKey should be deterministic")
	}
	if !strings.HasPrefix(k.ResultKey("g1", base), "result:") {
		t.Errorf("ResultKey prefix: %s", k.ResultKey("g1", base))
	}

	variants := []ResultKeyOpts{
		{Sets: "bitset", Reorder: true, Sort: true},
		{Sets: "stamp", Reorder: false, Sort: true},
		{Sets: "stamp", Reorder: true, Sort: false},
		{Sets: "stamp", Reorder: true, Sort: true, Symmetrize: true},
	}
	for _, v := range variants {
		if k.ResultKey("g1", v) == k.ResultKey("g1", base) {
			t.Errorf("options %+v should change the key", v)
		}
	}
	if k.ResultKey("g2", base) == k.ResultKey("g1", base) {
		t.Error("graph hash should change the key")
	}

	r1 := k.RenderKey("g1", RenderKeyOpts{Format: "svg"})
	r2 := k.RenderKey("g1", RenderKeyOpts{Format: "svg", Highlight: []int{1}})
	if r1 == r2 {
		t.Error("highlight should change the render key")
	}

	older := &DefaultKeyer{Version: "v0"}
	if older.ResultKey("g1", base) == k.ResultKey("g1", base) {
		t.Error("version should change the key")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "api:")
	opts := ResultKeyOpts{Sets: "stamp"}

	if got, want := scoped.ResultKey("h", opts), "api:"+inner.ResultKey("h", opts); got != want {
		t.Errorf("ResultKey = %s, want %s", got, want)
	}
	if got := scoped.RenderKey("h", RenderKeyOpts{}); !strings.HasPrefix(got, "api:render:") {
		t.Errorf("RenderKey = %s", got)
	}

	nilInner := NewScopedKeyer(nil, "x:")
	if got := nilInner.ResultKey("h", opts); got != "x:"+inner.ResultKey("h", opts) {
		t.Errorf("nil inner should fall back to the default keyer: %s", got)
	}
}

func TestRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not-a-url://", "")
	if err == nil {
		t.Error("NewRedisCache should reject a malformed URL")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(errTransient)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, errTransient) {
		t.Error("wrapped error should unwrap")
	}
	if IsRetryable(errTransient) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrCacheMiss
	})
	if err != ErrCacheMiss || calls != 1 {
		t.Errorf("non-retryable: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errTransient)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(errTransient)
	})
	if !errors.Is(err, errTransient) || calls != 3 {
		t.Errorf("exhausted: err %v, calls %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errTransient)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
