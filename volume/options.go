package volume

import (
	"fmt"
	"runtime"

	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/internal/options"
	"github.com/arloliu/denio/logging"
)

// Config holds the settings shared by readers, writers and files.
type Config struct {
	ExtraBuffers int                 // additional scratch buffers of a Reader
	CacheSize    int                 // frames kept by a CachedReader, 0 disables the cache
	Threads      int                 // parallel chunks of File loads and saves
	RateLimit    int                 // bytes per second of File loads and saves, 0 is unlimited
	Order        format.StorageOrder // storage order of newly created containers
	Logger       *logging.Logger

	orderSet bool // Order came from WithStorageOrder
}

// Option configures a reader, writer or file.
type Option = options.Option[Config]

func defaultConfig() Config {
	return Config{
		Threads: runtime.NumCPU(),
		Order:   format.XMajor,
		Logger:  logging.Noop(),
	}
}

func buildConfig(opts []Option) (Config, error) {
	cfg, err := options.Build(defaultConfig(), opts...)
	if err != nil {
		return Config{}, err
	}
	cfg.Logger = logging.OrNoop(cfg.Logger)

	return cfg, nil
}

// WithExtraBuffers sets how many scratch buffers a Reader holds beyond the first.
func WithExtraBuffers(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("%w: negative extra buffer count %d", errs.ErrInvalidGeometry, n)
		}
		c.ExtraBuffers = n

		return nil
	})
}

// WithCacheSize sets how many frames a CachedReader keeps.
func WithCacheSize(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("%w: negative cache size %d", errs.ErrInvalidGeometry, n)
		}
		c.CacheSize = n

		return nil
	})
}

// WithThreads sets the number of parallel chunks used by File. n below 1 means one chunk.
func WithThreads(n int) Option {
	return options.NoError(func(c *Config) {
		c.Threads = max(n, 1)
	})
}

// WithRateLimit throttles File loads and saves to bytesPerSecond. 0 removes the limit.
func WithRateLimit(bytesPerSecond int) Option {
	return options.NoError(func(c *Config) {
		c.RateLimit = max(bytesPerSecond, 0)
	})
}

// WithStorageOrder sets the storage order of containers created by writers and File.Save.
//
// A File saved with this option transposes every frame whose in-memory order differs.
func WithStorageOrder(order format.StorageOrder) Option {
	return options.New(func(c *Config) error {
		if !order.Valid() {
			return fmt.Errorf("%w: storage order %d", errs.ErrInvalidGeometry, uint16(order))
		}
		c.Order = order
		c.orderSet = true

		return nil
	})
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return options.NoError(func(c *Config) {
		c.Logger = l
	})
}
