package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache keeps one JSON file per entry, fanned out into 256
// subdirectories by the first byte of the key hash.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache creates a file-based cache in dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

// Get implements [Cache].
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e fileEntry
	if err := json.Unmarshal(raw, &e); err != nil || e.Key != key {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !e.ExpiresAt.IsZero() && c.now().After(e.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set implements [Cache]. The entry is written to a temporary file and
// renamed into place, so concurrent readers never see a partial entry.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := fileEntry{Key: key, Data: data}
	if ttl > 0 {
		e.ExpiresAt = c.now().Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete implements [Cache].
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close implements [Cache].
func (c *FileCache) Close() error { return nil }

// Stats walks the cache directory and reports the number of entries and
// their total size in bytes.
func (c *FileCache) Stats() (entries int, size int64, err error) {
	err = filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries++
		size += info.Size()
		return nil
	})
	return entries, size, err
}

// Clear removes every entry, keeping the root directory.
func (c *FileCache) Clear() error {
	items, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, it := range items {
		if err := os.RemoveAll(filepath.Join(c.dir, it.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
