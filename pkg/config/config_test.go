package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jamestrimble/maximal-clique/pkg/errors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "c.toml", `
[log]
level = "debug"

[search]
sets = "bitset"
no_sort = true
jobs = 8
timeout = "90s"

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/1"

[serve]
addr = "127.0.0.1:9000"
rate_limit = 0.5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Search.Sets != "bitset" || !cfg.Search.NoSort || cfg.Search.Jobs != 8 {
		t.Errorf("Search = %+v", cfg.Search)
	}
	if cfg.Search.Timeout != 90*time.Second {
		t.Errorf("Search.Timeout = %v, want 90s", cfg.Search.Timeout)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Serve.Addr != "127.0.0.1:9000" || cfg.Serve.RateLimit != 0.5 {
		t.Errorf("Serve = %+v", cfg.Serve)
	}
	// Untouched values keep their defaults.
	if cfg.Serve.Burst != Default().Serve.Burst {
		t.Errorf("Serve.Burst = %d, want default %d", cfg.Serve.Burst, Default().Serve.Burst)
	}
	if cfg.Cache.MongoDatabase != "cliquecount" {
		t.Errorf("Cache.MongoDatabase = %q", cfg.Cache.MongoDatabase)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "c.yaml", `
search:
  sets: roaring
  no_reorder: true
  timeout: 2m
cache:
  backend: mongo
  mongo_uri: mongodb://localhost:27017
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Search.Sets != "roaring" || !cfg.Search.NoReorder {
		t.Errorf("Search = %+v", cfg.Search)
	}
	if cfg.Search.Timeout != 2*time.Minute {
		t.Errorf("Search.Timeout = %v", cfg.Search.Timeout)
	}
	if cfg.Cache.Backend != "mongo" || cfg.Cache.MongoURI == "" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "c.yml", ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("empty file should yield defaults, got %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.Code
		msg     string
	}{
		{"bad sets", "c.toml", "[search]\nsets = \"hash\"\n", errors.ErrCodeInvalidConfig, "Search.Sets"},
		{"negative jobs", "c.toml", "[search]\njobs = -1\n", errors.ErrCodeInvalidConfig, "Search.Jobs"},
		{"redis without url", "c.toml", "[cache]\nbackend = \"redis\"\n", errors.ErrCodeInvalidConfig, "Cache.RedisURL"},
		{"mongo without uri", "c.yaml", "cache:\n  backend: mongo\n", errors.ErrCodeInvalidConfig, "Cache.MongoURI"},
		{"bad addr", "c.toml", "[serve]\naddr = \"nowhere\"\n", errors.ErrCodeInvalidConfig, "Serve.Addr"},
		{"unknown toml key", "c.toml", "[search]\ncolour = \"red\"\n", errors.ErrCodeInvalidConfig, "search.colour"},
		{"unknown yaml key", "c.yaml", "search:\n  colour: red\n", errors.ErrCodeInvalidConfig, "colour"},
		{"syntax", "c.toml", "[search\n", errors.ErrCodeInvalidConfig, ""},
		{"extension", "c.ini", "x=1\n", errors.ErrCodeInvalidConfig, "unsupported extension"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not mention %q", err, tt.msg)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	want := filepath.Join(dir, "cliquecount", "config.toml")
	if got := DefaultPath(); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}

	cfg, path, err := LoadDefault()
	if err != nil || path != "" || cfg != Default() {
		t.Errorf("LoadDefault() without file = %+v, %q, %v", cfg, path, err)
	}

	if err := os.MkdirAll(filepath.Dir(want), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(want, []byte("[search]\njobs = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, path, err = LoadDefault()
	if err != nil || path != want || cfg.Search.Jobs != 2 {
		t.Errorf("LoadDefault() with file = %+v, %q, %v", cfg, path, err)
	}
}
