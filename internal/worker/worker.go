package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driving"
)

// lockTTL bounds how long a worker may hold a task lock; longer than
// any reasonable batch, short enough that a crashed worker's tasks are
// reclaimed.
const lockTTL = 10 * time.Minute

// Worker processes ingest tasks from the task queue.
// Each task is guarded by a distributed lock so two instances never
// ingest the same batch concurrently.
type Worker struct {
	taskQueue       driven.TaskQueue
	documentService driving.DocumentService
	lock            driven.DistributedLock // optional, nil for single-instance deployments
	logger          *slog.Logger

	// Configuration
	concurrency    int
	dequeueTimeout int // seconds

	// Internal state
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Config holds configuration for the worker.
type Config struct {
	TaskQueue       driven.TaskQueue
	DocumentService driving.DocumentService
	Lock            driven.DistributedLock
	Logger          *slog.Logger
	Concurrency     int // Number of concurrent task processors
	DequeueTimeout  int // Seconds to wait for a task before checking again
}

// New creates a new task worker.
func New(cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	dequeueTimeout := cfg.DequeueTimeout
	if dequeueTimeout <= 0 {
		dequeueTimeout = 5
	}

	return &Worker{
		taskQueue:       cfg.TaskQueue,
		documentService: cfg.DocumentService,
		lock:            cfg.Lock,
		logger:          logger,
		concurrency:     concurrency,
		dequeueTimeout:  dequeueTimeout,
	}
}

// Start begins the worker loop.
// It runs until Stop is called or context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info("worker starting",
		"concurrency", w.concurrency,
		"dequeue_timeout", w.dequeueTimeout,
	)

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.processLoop(ctx, workerID)
		}(i)
	}

	go func() {
		wg.Wait()
		close(w.doneCh)
	}()

	return nil
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("worker stopped")
}

// Wait blocks until the worker stops.
func (w *Worker) Wait() {
	<-w.doneCh
}

// processLoop is the main processing loop for a worker goroutine.
func (w *Worker) processLoop(ctx context.Context, workerID int) {
	logger := w.logger.With("worker_id", workerID)
	logger.Info("worker goroutine started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker context cancelled")
			return
		case <-w.stopCh:
			logger.Info("worker stop signal received")
			return
		default:
		}

		task, err := w.taskQueue.DequeueWithTimeout(ctx, w.dequeueTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			logger.Error("failed to dequeue task", "error", err)
			time.Sleep(time.Second) // Back off on error
			continue
		}

		if task == nil {
			continue
		}

		w.processTask(ctx, task, logger)
	}
}

// processTask processes a single task under its distributed lock.
func (w *Worker) processTask(ctx context.Context, task *domain.Task, logger *slog.Logger) {
	logger = logger.With("task_id", task.ID, "task_type", task.Type)
	logger.Info("processing task")

	if w.lock != nil {
		lockName := "task:" + task.ID
		acquired, err := w.lock.Acquire(ctx, lockName, lockTTL)
		if err != nil {
			logger.Error("failed to acquire task lock", "error", err)
			return
		}
		if !acquired {
			// Another instance holds it; the queue will redeliver if
			// that instance dies.
			logger.Info("task locked by another worker, skipping")
			return
		}
		defer func() {
			if err := w.lock.Release(ctx, lockName); err != nil {
				logger.Error("failed to release task lock", "error", err)
			}
		}()
	}

	startTime := time.Now()
	var err error

	switch task.Type {
	case domain.TaskTypeIngestDocuments:
		err = w.handleIngest(ctx, task)
	default:
		err = fmt.Errorf("unknown task type: %s", task.Type)
	}

	duration := time.Since(startTime)

	if err != nil {
		logger.Error("task failed",
			"duration", duration,
			"error", err,
		)

		if nackErr := w.taskQueue.Nack(ctx, task.ID, err.Error()); nackErr != nil {
			logger.Error("failed to nack task", "nack_error", nackErr)
		}
		return
	}

	logger.Info("task completed", "duration", duration)

	if ackErr := w.taskQueue.Ack(ctx, task.ID); ackErr != nil {
		logger.Error("failed to ack task", "ack_error", ackErr)
	}
}

// handleIngest handles an ingest_documents task.
func (w *Worker) handleIngest(ctx context.Context, task *domain.Task) error {
	payload, err := task.DecodeIngestPayload()
	if err != nil {
		return fmt.Errorf("invalid ingest payload: %w", err)
	}
	if len(payload.Documents) == 0 {
		return nil
	}

	return w.documentService.Ingest(ctx, payload.Documents)
}

// Health returns health status of the worker.
type Health struct {
	Running     bool   `json:"running"`
	QueueHealth bool   `json:"queue_health"`
	Error       string `json:"error,omitempty"`
}

// Health returns the health status of the worker.
func (w *Worker) Health(ctx context.Context) Health {
	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()

	health := Health{
		Running: running,
	}

	if err := w.taskQueue.Ping(ctx); err != nil {
		health.QueueHealth = false
		health.Error = err.Error()
	} else {
		health.QueueHealth = true
	}

	return health
}
