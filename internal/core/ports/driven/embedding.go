package driven

import (
	"context"
)

// EmbeddingSource records where a vector came from. The fallback vector
// is deterministic but not semantically meaningful; callers must check
// Source rather than inspecting vector content.
type EmbeddingSource string

const (
	EmbeddingSourceRemote   EmbeddingSource = "remote"
	EmbeddingSourceFallback EmbeddingSource = "fallback"
)

// Embedding is a computed vector together with its provenance
type Embedding struct {
	Vector []float64
	Source EmbeddingSource
}

// Fallback reports whether the vector came from the local degraded path
func (e *Embedding) Fallback() bool {
	return e.Source == EmbeddingSourceFallback
}

// EmbeddingService converts text to fixed-dimension vectors.
// Implementations never fail the caller: remote errors degrade to a
// deterministic local pseudo-embedding flagged via Embedding.Source.
type EmbeddingService interface {
	// Embed generates a vector for a single text
	Embed(ctx context.Context, text string) (*Embedding, error)

	// EmbedBatch generates vectors for multiple texts, sequentially,
	// preserving input order. One text degrading to the fallback does
	// not abort the batch.
	EmbedBatch(ctx context.Context, texts []string) ([]*Embedding, error)

	// Dimensions returns the embedding dimension size
	Dimensions() int

	// Model returns the model name being used
	Model() string

	// HealthCheck verifies the remote provider is reachable
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the service
	Close() error
}
