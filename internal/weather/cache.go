package weather

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FetchFunc produces a table on cache miss.
type FetchFunc func(ctx context.Context) (*Table, error)

// Cache deduplicates weather fetches within a process. Entries are never
// invalidated; a fresh process sees fresh data.
type Cache interface {
	GetOrFetch(ctx context.Context, key string, fetch FetchFunc) (*Table, error)
}

// MemoryCache is an in-process Cache. Concurrent callers with the same key
// share a single in-flight fetch; errors are not cached.
type MemoryCache struct {
	mu       sync.RWMutex
	tables   map[string]*Table
	inFlight singleflight.Group
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{tables: make(map[string]*Table)}
}

func (c *MemoryCache) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) (*Table, error) {
	c.mu.RLock()
	table, ok := c.tables[key]
	c.mu.RUnlock()
	if ok {
		return table, nil
	}

	result, err, _ := c.inFlight.Do(key, func() (any, error) {
		c.mu.RLock()
		cached, ok := c.tables[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}
		fetched, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.tables[key] = fetched
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Table), nil
}

// NopCache always fetches. Useful in tests and when caching is disabled.
type NopCache struct{}

func (NopCache) GetOrFetch(ctx context.Context, _ string, fetch FetchFunc) (*Table, error) {
	return fetch(ctx)
}
