package volume

import (
	"sync"

	"github.com/arloliu/denio/codec"
	"github.com/arloliu/denio/container"
	"github.com/arloliu/denio/frame"
)

// CachedReader is a Reader with a bounded frame cache.
//
// Once the cache holds CacheSize frames, inserting another evicts the frame
// inserted earliest, even if it was read again since. Frames returned from
// the cache are shared: callers must not modify them, and should Clone a
// frame they intend to change.
type CachedReader[T codec.Element] struct {
	*Reader[T]

	cacheSize int

	mu    sync.RWMutex
	cache map[int]*frame.Buffered[T]
	queue []int // insertion order, oldest first
}

var _ FrameSource[uint16] = (*CachedReader[uint16])(nil)

// OpenCachedReader opens the container at path with a cache of WithCacheSize frames.
//
// The cache size is clamped to the frame count; 0 disables caching.
func OpenCachedReader[T codec.Element](path string, opts ...Option) (*CachedReader[T], error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	info, err := container.Parse(path, true)
	if err != nil {
		return nil, err
	}

	r, err := newReader[T](info, cfg)
	if err != nil {
		return nil, err
	}

	size := min(cfg.CacheSize, r.frameCount)

	return &CachedReader[T]{
		Reader:    r,
		cacheSize: size,
		cache:     make(map[int]*frame.Buffered[T], size),
		queue:     make([]int, 0, size+1),
	}, nil
}

// ReadFrame returns the cached frame index, reading and caching it on a miss.
func (c *CachedReader[T]) ReadFrame(index int) (*frame.Buffered[T], error) {
	c.mu.RLock()
	f, ok := c.cache[index]
	c.mu.RUnlock()
	if ok {
		return f, nil
	}

	f, err := c.Reader.ReadFrame(index)
	if err != nil {
		return nil, err
	}
	c.insert(index, f)

	return f, nil
}

func (c *CachedReader[T]) insert(index int, f *frame.Buffered[T]) {
	if c.cacheSize == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// A concurrent miss on the same index already queued it.
	if _, ok := c.cache[index]; ok {
		c.cache[index] = f
		return
	}

	c.cache[index] = f
	c.queue = append(c.queue, index)
	for len(c.queue) > c.cacheSize {
		delete(c.cache, c.queue[0])
		c.queue = c.queue[1:]
	}
}

// FillCache reads count frames starting at from into the cache.
//
// The range is clamped to the frame count. A count below the cache size is
// raised to the cache size.
func (c *CachedReader[T]) FillCache(from, count int) error {
	if c.cacheSize > 0 && count < c.cacheSize {
		c.logger.Warn("fill count raised to cache size", "requested", count, "cache_size", c.cacheSize)
		count = c.cacheSize
	}

	from = max(from, 0)
	end := min(from+max(count, 0), c.frameCount)
	for i := from; i < end; i++ {
		if _, err := c.ReadFrame(i); err != nil {
			return err
		}
	}

	return nil
}

// Cached reports whether frame index is in the cache.
func (c *CachedReader[T]) Cached(index int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.cache[index]

	return ok
}

// CacheLen returns the number of cached frames.
func (c *CachedReader[T]) CacheLen() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.cache)
}

// CacheSize returns the effective cache capacity.
func (c *CachedReader[T]) CacheSize() int {
	return c.cacheSize
}
