package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridway-io/transfer-client/internal/constants"
)

// CacheType selects a response cache backend.
type CacheType string

const (
	// CacheTypeMemory caches in process memory.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNATS caches in a NATS JetStream key-value bucket, shared
	// across processes.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeNone disables caching.
	CacheTypeNone CacheType = "none"
)

// Static errors for cache construction.
var (
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
)

// CacheConfig selects and tunes a cache backend for Config.Cache.
type CacheConfig struct {
	Type   CacheType
	Memory *MemoryCacheConfig
	NATS   *NATSKVConfig
}

// MemoryCacheConfig tunes the in-memory backend.
type MemoryCacheConfig struct {
	// MaxSize caps the entry count; the least recently used entry is
	// evicted past it.
	MaxSize int
}

// NewCacheFromConfig builds the cache a config asks for. A nil config
// yields an in-memory cache of the default size.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = &CacheConfig{Type: CacheTypeMemory}
	}

	switch config.Type {
	case CacheTypeMemory:
		return NewMemoryCache(memoryCacheSize(config.Memory)), nil
	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		return NewNATSKVCache(config.NATS)
	case CacheTypeNone:
		return NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}

func memoryCacheSize(config *MemoryCacheConfig) int {
	if config != nil && config.MaxSize > 0 {
		return config.MaxSize
	}

	return constants.DefaultCacheSize
}

// NoOpCache satisfies Cache while caching nothing, for callers that want
// the cache-type plumbing without the caching.
type NoOpCache struct{}

// NewNoOpCache creates a disabled cache.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get always misses.
func (c *NoOpCache) Get(_ context.Context, _ string) (*CacheEntry, error) {
	return nil, ErrCacheDisabled
}

// Set discards the entry.
func (c *NoOpCache) Set(_ context.Context, _ string, _ *CacheEntry) error {
	return nil
}

// Delete is a no-op.
func (c *NoOpCache) Delete(_ context.Context, _ string) error {
	return nil
}

// Clear is a no-op.
func (c *NoOpCache) Clear(_ context.Context) error {
	return nil
}

// Has always reports false.
func (c *NoOpCache) Has(_ context.Context, _ string) bool {
	return false
}

// CacheBuilder assembles a CacheConfig fluently.
type CacheBuilder struct {
	config CacheConfig
}

// NewCacheBuilder starts a builder defaulting to the memory backend.
func NewCacheBuilder() *CacheBuilder {
	return &CacheBuilder{config: CacheConfig{Type: CacheTypeMemory}}
}

// WithType selects the backend.
func (b *CacheBuilder) WithType(cacheType CacheType) *CacheBuilder {
	b.config.Type = cacheType

	return b
}

// WithMemoryConfig sets the in-memory entry cap.
func (b *CacheBuilder) WithMemoryConfig(maxSize int) *CacheBuilder {
	b.config.Memory = &MemoryCacheConfig{MaxSize: maxSize}

	return b
}

// WithNATSConfig sets the NATS key-value backend configuration.
func (b *CacheBuilder) WithNATSConfig(config *NATSKVConfig) *CacheBuilder {
	b.config.NATS = config

	return b
}

// Build creates the configured cache.
func (b *CacheBuilder) Build() (Cache, error) {
	return NewCacheFromConfig(&b.config)
}

// CacheChain layers caches from fastest to slowest, e.g. a small memory
// cache in front of a shared NATS bucket. Reads probe each level in
// order; writes fan out to all of them.
type CacheChain struct {
	caches []Cache
}

// NewCacheChain creates a chain over the given levels, ordered fastest
// first.
func NewCacheChain(caches ...Cache) *CacheChain {
	return &CacheChain{caches: caches}
}

// Get returns the entry from the first level that holds it, promoting
// the hit into every faster level on the way out.
func (c *CacheChain) Get(ctx context.Context, key string) (*CacheEntry, error) {
	for i, cache := range c.caches {
		entry, err := cache.Get(ctx, key)
		if err != nil {
			continue
		}

		for _, faster := range c.caches[:i] {
			_ = faster.Set(ctx, key, entry)
		}

		return entry, nil
	}

	return nil, ErrKeyNotFoundInAnyCache
}

// Set writes the entry through every level, reporting the last failure.
func (c *CacheChain) Set(ctx context.Context, key string, entry *CacheEntry) error {
	return c.fanout(func(cache Cache) error {
		return cache.Set(ctx, key, entry)
	})
}

// Delete removes the key from every level.
func (c *CacheChain) Delete(ctx context.Context, key string) error {
	return c.fanout(func(cache Cache) error {
		return cache.Delete(ctx, key)
	})
}

// Clear empties every level.
func (c *CacheChain) Clear(ctx context.Context) error {
	return c.fanout(func(cache Cache) error {
		return cache.Clear(ctx)
	})
}

// Has reports whether any level holds the key.
func (c *CacheChain) Has(ctx context.Context, key string) bool {
	for _, cache := range c.caches {
		if cache.Has(ctx, key) {
			return true
		}
	}

	return false
}

// fanout applies op to every level and keeps the last error so one slow
// or broken level does not hide writes to the others.
func (c *CacheChain) fanout(op func(Cache) error) error {
	var lastErr error

	for _, cache := range c.caches {
		if err := op(cache); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
