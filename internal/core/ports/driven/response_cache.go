package driven

import (
	"context"
	"time"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
)

// ResponseCache stores computed retrieval responses under derived keys.
// Keys are opaque strings produced by domain.CacheKey. Entries expire
// after their TTL; an expired entry behaves exactly like a missing one.
type ResponseCache interface {
	// Get returns the cached response for key, or domain.ErrNotFound if
	// the key is missing or expired.
	Get(ctx context.Context, key string) (*domain.RetrievalResponse, error)

	// Set stores a response under key, overwriting unconditionally.
	Set(ctx context.Context, key string, resp *domain.RetrievalResponse, ttl time.Duration) error

	// Delete removes a single entry. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries. Administrative and test use only.
	Clear(ctx context.Context) error

	// Ping checks liveness of the underlying store.
	Ping(ctx context.Context) error
}
