package services

import (
	"context"
	"sync"
)

// generationRegistry maps generation IDs to cancellation handles for
// in-flight provider calls. Entries are removed on natural completion,
// error, or explicit cancellation so the map stays bounded.
type generationRegistry struct {
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

func newGenerationRegistry() *generationRegistry {
	return &generationRegistry{
		cancels: make(map[string]context.CancelFunc),
	}
}

// Register derives a cancellable context for the generation and records
// its handle. Registering an ID that is already active cancels the
// older generation first.
func (r *generationRegistry) Register(ctx context.Context, id string) (context.Context, context.CancelFunc) {
	genCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if old, ok := r.cancels[id]; ok {
		old()
	}
	r.cancels[id] = cancel
	r.mu.Unlock()

	return genCtx, cancel
}

// Remove drops the handle for a finished generation
func (r *generationRegistry) Remove(id string) {
	r.mu.Lock()
	delete(r.cancels, id)
	r.mu.Unlock()
}

// Cancel aborts an in-flight generation. Returns false if the ID is not active.
func (r *generationRegistry) Cancel(id string) bool {
	r.mu.Lock()
	cancel, ok := r.cancels[id]
	if ok {
		delete(r.cancels, id)
	}
	r.mu.Unlock()

	if ok {
		cancel()
	}
	return ok
}

// Active returns the number of in-flight generations
func (r *generationRegistry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cancels)
}
