// Package config loads cliquecount settings from TOML or YAML files.
//
// The default location is $XDG_CONFIG_HOME/cliquecount/config.toml
// (~/.config/cliquecount/config.toml). Command-line flags override any
// value set here.
//
//	[search]
//	sets = "bitset"
//	jobs = 8
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[serve]
//	addr = ":8080"
//	rate_limit = 5.0
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jamestrimble/maximal-clique/pkg/errors"
)

// Config is the complete file configuration.
type Config struct {
	Log    LogConfig    `toml:"log" yaml:"log"`
	Search SearchConfig `toml:"search" yaml:"search"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Serve  ServeConfig  `toml:"serve" yaml:"serve"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// SearchConfig sets defaults for count runs.
type SearchConfig struct {
	Sets        string        `toml:"sets" yaml:"sets" validate:"omitempty,oneof=stamp bitset roaring"`
	NoReorder   bool          `toml:"no_reorder" yaml:"no_reorder"`
	NoSort      bool          `toml:"no_sort" yaml:"no_sort"`
	Symmetrize  bool          `toml:"symmetrize" yaml:"symmetrize"`
	MaxVertices int           `toml:"max_vertices" yaml:"max_vertices" validate:"gte=0"`
	Jobs        int           `toml:"jobs" yaml:"jobs" validate:"gte=0,lte=256"`
	Timeout     time.Duration `toml:"timeout" yaml:"timeout" validate:"gte=0"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend         string `toml:"backend" yaml:"backend" validate:"omitempty,oneof=none file redis mongo"`
	Dir             string `toml:"dir" yaml:"dir"`
	RedisURL        string `toml:"redis_url" yaml:"redis_url" validate:"required_if=Backend redis"`
	MongoURI        string `toml:"mongo_uri" yaml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase   string `toml:"mongo_database" yaml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection" yaml:"mongo_collection"`
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	Addr           string        `toml:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
	RateLimit      float64       `toml:"rate_limit" yaml:"rate_limit" validate:"gte=0"`
	Burst          int           `toml:"burst" yaml:"burst" validate:"gte=0"`
	MaxBodyBytes   int64         `toml:"max_body_bytes" yaml:"max_body_bytes" validate:"gte=0"`
	MaxVertices    int           `toml:"max_vertices" yaml:"max_vertices" validate:"gte=0"`
	RequestTimeout time.Duration `toml:"request_timeout" yaml:"request_timeout" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Search: SearchConfig{Sets: "stamp", Jobs: 4},
		Cache: CacheConfig{
			Backend:         "file",
			MongoDatabase:   "cliquecount",
			MongoCollection: "clique_cache",
		},
		Serve: ServeConfig{
			Addr:           ":8080",
			RateLimit:      2,
			Burst:          4,
			MaxBodyBytes:   64 << 20,
			MaxVertices:    20_000,
			RequestTimeout: 5 * time.Minute,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return errors.New(errors.ErrCodeInvalidConfig, "%s", strings.Join(msgs, "; "))
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate")
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s: %q is not one of [%s]", field, fe.Value(), fe.Param())
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, strings.Replace(fe.Param(), " ", " = ", 1))
	case "hostname_port":
		return fmt.Sprintf("%s: %q is not a host:port address", field, fe.Value())
	}
	return fmt.Sprintf("%s: failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
}

// Load reads the file at path over the defaults. The format is chosen by
// extension: .toml, .yaml or .yml. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = decodeTOML(data, &cfg)
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	default:
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "config %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads DefaultPath if it exists and returns the defaults
// otherwise. The second result is the path actually read, if any.
func LoadDefault() (Config, string, error) {
	path := DefaultPath()
	if _, err := os.Stat(path); err != nil {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// DefaultPath returns the XDG config location.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "cliquecount", "config.toml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "cliquecount", "config.toml")
	}
	return filepath.Join(".", "cliquecount.toml")
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return err
	}
	return nil
}
