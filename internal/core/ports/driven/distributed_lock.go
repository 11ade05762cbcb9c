package driven

import (
	"context"
	"time"
)

// DistributedLock coordinates exclusive work across instances.
// Used by the ingest worker so two workers never process the same
// bulk-load batch concurrently.
type DistributedLock interface {
	// Acquire attempts to take a named lock with the given TTL.
	// Returns true if acquired, false if held elsewhere.
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)

	// Release releases a named lock if held by this instance.
	// Safe to call when the lock is not held or has expired.
	Release(ctx context.Context, name string) error
}
