package driven

import (
	"context"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
)

// TaskQueue handles background ingest task queuing and processing
type TaskQueue interface {
	// Enqueue adds a task to the queue for processing
	Enqueue(ctx context.Context, task *domain.Task) error

	// DequeueWithTimeout retrieves the next available task, waiting up
	// to timeout seconds. Returns nil, nil if the timeout elapses with
	// no task available.
	DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error)

	// Ack acknowledges successful completion of a task
	Ack(ctx context.Context, taskID string) error

	// Nack indicates task processing failed; the task is retried until
	// MaxAttempts is exceeded, then marked failed.
	Nack(ctx context.Context, taskID string, reason string) error

	// Ping checks if the queue backend is healthy
	Ping(ctx context.Context) error

	// Close cleans up resources
	Close() error
}
