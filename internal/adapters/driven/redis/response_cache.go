package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ResponseCache = (*ResponseCache)(nil)

const cachePrefix = "wellspring:rag:"

// ResponseCache implements driven.ResponseCache using Redis.
// Entries use Redis TTL for automatic expiration; values are the JSON
// encoding of the response envelope, which round-trips timestamps.
type ResponseCache struct {
	client *redis.Client
}

// NewResponseCache creates a new Redis-backed ResponseCache
func NewResponseCache(client *redis.Client) *ResponseCache {
	return &ResponseCache{client: client}
}

// Get returns the cached response for key, or domain.ErrNotFound if the
// key is missing or has expired.
func (c *ResponseCache) Get(ctx context.Context, key string) (*domain.RetrievalResponse, error) {
	data, err := c.client.Get(ctx, cachePrefix+key).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached response: %w", err)
	}

	var resp domain.RetrievalResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached response: %w", err)
	}

	return &resp, nil
}

// Set stores a response under key, overwriting unconditionally
func (c *ResponseCache) Set(ctx context.Context, key string, resp *domain.RetrievalResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if err := c.client.Set(ctx, cachePrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache response: %w", err)
	}
	return nil
}

// Delete removes a single entry. Removing a missing key is not an error.
func (c *ResponseCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, cachePrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete cached response: %w", err)
	}
	return nil
}

// Clear removes all cache entries under this prefix
func (c *ResponseCache) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, cachePrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Ping checks if the Redis backend is healthy
func (c *ResponseCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
