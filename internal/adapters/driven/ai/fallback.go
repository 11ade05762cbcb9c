package ai

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
)

// Ensure FallbackEmbedding implements EmbeddingService
var _ driven.EmbeddingService = (*FallbackEmbedding)(nil)

// FallbackEmbedding is the purely local embedding provider. Its vectors
// are deterministic per input but carry no semantic meaning; they exist
// to keep the retrieval pipeline alive when no remote provider is
// configured.
type FallbackEmbedding struct {
	dimensions int
}

// NewFallbackEmbedding creates a local deterministic embedding service
func NewFallbackEmbedding(dimensions int) driven.EmbeddingService {
	if dimensions <= 0 {
		dimensions = defaultDimensions
	}
	return &FallbackEmbedding{dimensions: dimensions}
}

func (f *FallbackEmbedding) Embed(ctx context.Context, text string) (*driven.Embedding, error) {
	return &driven.Embedding{
		Vector: fallbackVector(text, f.dimensions),
		Source: driven.EmbeddingSourceFallback,
	}, nil
}

func (f *FallbackEmbedding) EmbedBatch(ctx context.Context, texts []string) ([]*driven.Embedding, error) {
	embeddings := make([]*driven.Embedding, len(texts))
	for i, text := range texts {
		emb, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

func (f *FallbackEmbedding) Dimensions() int {
	return f.dimensions
}

func (f *FallbackEmbedding) Model() string {
	return "local-fallback"
}

func (f *FallbackEmbedding) HealthCheck(ctx context.Context) error {
	return nil
}

func (f *FallbackEmbedding) Close() error {
	return nil
}

// fallbackVector derives a deterministic pseudo-embedding from a string
// hash, scaled through a bounded periodic function. Same text, same
// vector; all components stay in [-1, 1].
func fallbackVector(text string, dimensions int) []float64 {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := float64(h.Sum64() % 100003)

	vector := make([]float64, dimensions)
	for i := range vector {
		vector[i] = math.Sin(seed + float64(i))
	}
	return vector
}
