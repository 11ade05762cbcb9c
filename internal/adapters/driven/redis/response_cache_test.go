package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
)

// setupTestRedis creates a miniredis-backed client for tests
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr, func() {
		client.Close()
		mr.Close()
	}
}

func sampleResponse() *domain.RetrievalResponse {
	return &domain.RetrievalResponse{
		Results:      []*domain.SearchResult{},
		TotalResults: 0,
		Sources:      []string{"who"},
		Confidence:   0.8,
		Model:        "wellspring-hybrid",
		Timestamp:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestResponseCache_SetAndGet(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()
	cache := NewResponseCache(client)

	resp := sampleResponse()
	if err := cache.Set(context.Background(), "key-1", resp, time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := cache.Get(context.Background(), "key-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Model != resp.Model || got.Confidence != resp.Confidence {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if !got.Timestamp.Equal(resp.Timestamp) {
		t.Errorf("timestamp must round-trip exactly: got %v want %v", got.Timestamp, resp.Timestamp)
	}
}

func TestResponseCache_GetMissing(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()
	cache := NewResponseCache(client)

	if _, err := cache.Get(context.Background(), "never-set"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResponseCache_Expiry(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	cache := NewResponseCache(client)

	if err := cache.Set(context.Background(), "key-1", sampleResponse(), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := cache.Get(context.Background(), "key-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected the expired entry to behave like a miss, got %v", err)
	}
}

func TestResponseCache_Delete(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()
	cache := NewResponseCache(client)

	if err := cache.Set(context.Background(), "key-1", sampleResponse(), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Delete(context.Background(), "key-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(context.Background(), "key-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Error("expected the entry to be gone")
	}

	// Deleting a missing key is not an error.
	if err := cache.Delete(context.Background(), "never-set"); err != nil {
		t.Errorf("Delete of missing key failed: %v", err)
	}
}

func TestResponseCache_Clear(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	cache := NewResponseCache(client)

	for _, key := range []string{"a", "b", "c"} {
		if err := cache.Set(context.Background(), key, sampleResponse(), time.Hour); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	// A key outside the cache prefix must survive Clear.
	mr.Set("wellspring:lock:other", "held")

	if err := cache.Clear(context.Background()); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	for _, key := range []string{"a", "b", "c"} {
		if _, err := cache.Get(context.Background(), key); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected key %q to be cleared", key)
		}
	}
	if !mr.Exists("wellspring:lock:other") {
		t.Error("Clear must not touch keys outside the cache prefix")
	}
}

func TestResponseCache_Ping(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	cache := NewResponseCache(client)

	if err := cache.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	mr.Close()
	if err := cache.Ping(context.Background()); err == nil {
		t.Error("expected Ping to fail after shutdown")
	}
}
