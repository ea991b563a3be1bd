package digest

import (
	"github.com/arloliu/denio/internal/options"
	"github.com/arloliu/denio/logging"
)

// Config holds Container settings.
type Config struct {
	Logger *logging.Logger
}

// Option configures Container.
type Option = options.Option[Config]

func buildConfig(opts []Option) (Config, error) {
	cfg, err := options.Build(Config{}, opts...)
	if err != nil {
		return Config{}, err
	}
	cfg.Logger = logging.OrNoop(cfg.Logger).WithComponent("digest")

	return cfg, nil
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return options.NoError(func(c *Config) {
		c.Logger = l
	})
}
