package memory

import (
	"context"
	"sync"
	"time"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ResponseCache = (*ResponseCache)(nil)

// ResponseCache is the in-process fallback cache used when Redis is not
// configured. Expired entries are dropped lazily on read; a periodic
// janitor is not worth the complexity for a single-instance fallback.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	resp      *domain.RetrievalResponse
	expiresAt time.Time
}

// NewResponseCache creates an in-memory ResponseCache
func NewResponseCache() *ResponseCache {
	return &ResponseCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached response for key, or domain.ErrNotFound if the
// key is missing or has expired.
func (c *ResponseCache) Get(ctx context.Context, key string) (*domain.RetrievalResponse, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, domain.ErrNotFound
	}
	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	return entry.resp, nil
}

// Set stores a response under key, overwriting unconditionally
func (c *ResponseCache) Set(ctx context.Context, key string, resp *domain.RetrievalResponse, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{resp: resp, expiresAt: c.now().Add(ttl)}
	return nil
}

// Delete removes a single entry. Removing a missing key is not an error.
func (c *ResponseCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Clear removes all entries
func (c *ResponseCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	return nil
}

// Ping always succeeds for the in-process cache
func (c *ResponseCache) Ping(ctx context.Context) error {
	return nil
}
