// Package config loads the YAML configuration of the denio command.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/arloliu/denio/digest"
	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/logging"
	"github.com/arloliu/denio/volume"
	"gopkg.in/yaml.v3"
)

// Config is the command configuration.
type Config struct {
	// Threads is the worker count for parallel loads, statistics and packing.
	Threads int `yaml:"threads"`

	Log struct {
		Level  string `yaml:"level"`  // debug, info, warn or error
		Format string `yaml:"format"` // text or json
	} `yaml:"log"`

	Reader struct {
		ExtraBuffers int `yaml:"extraBuffers"`
		CacheSize    int `yaml:"cacheSize"`
	} `yaml:"reader"`

	Writer struct {
		Order     string `yaml:"order"`     // x-major or y-major
		RateLimit int    `yaml:"rateLimit"` // bytes per second, 0 is unlimited
	} `yaml:"writer"`

	Archive struct {
		Compression string `yaml:"compression"` // none, zstd, s2 or lz4
	} `yaml:"archive"`

	Digest struct {
		Algorithm string `yaml:"algorithm"` // xxhash64, murmur3 or blake3
	} `yaml:"digest"`

	Scan struct {
		Extensions     []string `yaml:"extensions"`
		FollowSymlinks bool     `yaml:"followSymlinks"`
	} `yaml:"scan"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	cfg := &Config{Threads: runtime.NumCPU()}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Reader.ExtraBuffers = cfg.Threads - 1
	cfg.Writer.Order = format.XMajor.String()
	cfg.Archive.Compression = "zstd"
	cfg.Digest.Algorithm = digest.XXHash64.String()
	cfg.Scan.Extensions = []string{".den", ".DEN"}

	return cfg
}

// Load reads the configuration at path on top of the defaults.
//
// A missing file yields the defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("%w: read config %s: %w", errs.ErrIO, path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse config %s: %w", errs.ErrInvalidArgument, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: create config directory: %w", errs.ErrIO, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write config %s: %w", errs.ErrIO, path, err)
	}

	return nil
}

// Validate checks every enumerated setting and every count.
func (c *Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("%w: threads must be positive, got %d", errs.ErrInvalidArgument, c.Threads)
	}
	if c.Reader.ExtraBuffers < 0 || c.Reader.CacheSize < 0 || c.Writer.RateLimit < 0 {
		return fmt.Errorf("%w: negative buffer, cache or rate setting", errs.ErrInvalidArgument)
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("%w: log level %q", errs.ErrInvalidArgument, c.Log.Level)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("%w: log format %q", errs.ErrInvalidArgument, c.Log.Format)
	}
	if _, err := c.StorageOrder(); err != nil {
		return err
	}
	if _, err := c.Compression(); err != nil {
		return err
	}
	if _, err := digest.ParseAlgorithm(c.Digest.Algorithm); err != nil {
		return err
	}

	return nil
}

// StorageOrder returns the configured storage order of new containers.
func (c *Config) StorageOrder() (format.StorageOrder, error) {
	order, ok := format.ParseStorageOrder(strings.ToLower(c.Writer.Order))
	if !ok {
		return 0, fmt.Errorf("%w: storage order %q", errs.ErrInvalidArgument, c.Writer.Order)
	}

	return order, nil
}

// Compression returns the configured archive codec.
func (c *Config) Compression() (format.CompressionType, error) {
	ct, ok := format.ParseCompressionType(strings.ToLower(c.Archive.Compression))
	if !ok {
		return 0, fmt.Errorf("%w: compression %q", errs.ErrUnsupportedAlgorithm, c.Archive.Compression)
	}

	return ct, nil
}

// Logger builds the configured logger writing to w.
func (c *Config) Logger(w io.Writer) *logging.Logger {
	level, _ := logging.ParseLevel(c.Log.Level)
	if strings.EqualFold(c.Log.Format, "json") {
		return logging.NewJSON(w, level)
	}

	return logging.NewText(w, level)
}

// VolumeOptions translates the reader and writer settings into volume options.
func (c *Config) VolumeOptions(logger *logging.Logger) []volume.Option {
	opts := []volume.Option{
		volume.WithThreads(c.Threads),
		volume.WithExtraBuffers(c.Reader.ExtraBuffers),
		volume.WithCacheSize(c.Reader.CacheSize),
		volume.WithRateLimit(c.Writer.RateLimit),
		volume.WithLogger(logger),
	}
	if order, err := c.StorageOrder(); err == nil {
		opts = append(opts, volume.WithStorageOrder(order))
	}

	return opts
}
