package archive

import (
	"runtime"

	"github.com/arloliu/denio/compress"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/internal/options"
	"github.com/arloliu/denio/logging"
)

// Config holds Pack and Unpack settings.
type Config struct {
	Compression format.CompressionType
	Threads     int // frames compressed in parallel by Pack
	Logger      *logging.Logger
}

// Option configures Pack or Unpack.
type Option = options.Option[Config]

func defaultConfig() Config {
	return Config{
		Compression: format.CompressionZstd,
		Threads:     runtime.NumCPU(),
		Logger:      logging.Noop(),
	}
}

func buildConfig(opts []Option) (Config, error) {
	cfg, err := options.Build(defaultConfig(), opts...)
	if err != nil {
		return Config{}, err
	}
	cfg.Logger = logging.OrNoop(cfg.Logger).WithComponent("archive")

	return cfg, nil
}

// WithCompression selects the frame codec used by Pack.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if _, err := compress.Get(ct); err != nil {
			return err
		}
		c.Compression = ct

		return nil
	})
}

// WithThreads sets how many frames Pack compresses in parallel. n below 1 means one.
func WithThreads(n int) Option {
	return options.NoError(func(c *Config) {
		c.Threads = max(n, 1)
	})
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return options.NoError(func(c *Config) {
		c.Logger = l
	})
}
