package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// CatalogCache is a small TTL cache for catalog reads that change rarely.
// Cached values are shared between callers and must not be mutated.
type CatalogCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	store map[string]entry
}

// NewCatalogCache returns a cache whose entries live for ttl. A ttl of zero
// disables caching.
func NewCatalogCache(ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		ttl:   ttl,
		now:   time.Now,
		store: make(map[string]entry),
	}
}

func (c *CatalogCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.store[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *CatalogCache) Set(key string, value any) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Invalidate drops keys, typically after a write to the data behind them.
func (c *CatalogCache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.store, k)
	}
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result. Errors are not cached.
func GetOrLoad[T any](c *CatalogCache, key string, load func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}
