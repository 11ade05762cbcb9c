package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
)

type cacheEntry struct {
	resp      *domain.RetrievalResponse
	createdAt time.Time
	ttl       time.Duration
}

// MockResponseCache is an in-memory ResponseCache for testing
type MockResponseCache struct {
	mu       sync.Mutex
	entries  map[string]cacheEntry
	now      func() time.Time
	failNext error

	gets int
	sets int
}

// NewMockResponseCache creates a new MockResponseCache
func NewMockResponseCache() *MockResponseCache {
	return &MockResponseCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// SetNow overrides the clock, for expiry tests
func (m *MockResponseCache) SetNow(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// SetFailNext makes the next cache call return err
func (m *MockResponseCache) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Gets returns the number of Get calls seen
func (m *MockResponseCache) Gets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets
}

// Sets returns the number of Set calls seen
func (m *MockResponseCache) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

func (m *MockResponseCache) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *MockResponseCache) Get(ctx context.Context, key string) (*domain.RetrievalResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if err := m.takeFailure(); err != nil {
		return nil, err
	}

	entry, ok := m.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if m.now().Sub(entry.createdAt) >= entry.ttl {
		delete(m.entries, key)
		return nil, domain.ErrNotFound
	}
	return entry.resp, nil
}

func (m *MockResponseCache) Set(ctx context.Context, key string, resp *domain.RetrievalResponse, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.entries[key] = cacheEntry{resp: resp, createdAt: m.now(), ttl: ttl}
	return nil
}

func (m *MockResponseCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MockResponseCache) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]cacheEntry)
	return nil
}

func (m *MockResponseCache) Ping(ctx context.Context) error {
	return nil
}
