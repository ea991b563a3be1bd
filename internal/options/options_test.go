package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type readerConfig struct {
	cacheSize int
	threads   int
	name      string
}

func withCacheSize(n int) Option[readerConfig] {
	return New(func(c *readerConfig) error {
		if n < 0 {
			return errors.New("negative cache size")
		}
		c.cacheSize = n

		return nil
	})
}

func withName(name string) Option[readerConfig] {
	return NoError(func(c *readerConfig) { c.name = name })
}

func TestApply(t *testing.T) {
	cfg := readerConfig{threads: 4}

	err := Apply(&cfg, withCacheSize(8), nil, withName("proj.den"))
	require.NoError(t, err)
	require.Equal(t, 8, cfg.cacheSize)
	require.Equal(t, 4, cfg.threads)
	require.Equal(t, "proj.den", cfg.name)
}

func TestApply_StopsAtFirstError(t *testing.T) {
	cfg := readerConfig{}

	err := Apply(&cfg, withName("first"), withCacheSize(-1), withName("second"))
	require.Error(t, err)
	require.Equal(t, "first", cfg.name)
}

func TestBuild(t *testing.T) {
	defaults := readerConfig{threads: 2}

	cfg, err := Build(defaults, withCacheSize(3))
	require.NoError(t, err)
	require.Equal(t, 3, cfg.cacheSize)
	require.Equal(t, 2, cfg.threads)
	require.Equal(t, 0, defaults.cacheSize, "defaults are not modified")

	cfg, err = Build(defaults, withCacheSize(-5))
	require.Error(t, err)
	require.Equal(t, readerConfig{}, cfg)
}
