package mocks

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
)

// MockEmbeddingService is a mock implementation of EmbeddingService for testing.
// Vectors can be fixed per text; unknown texts get a deterministic hash vector.
type MockEmbeddingService struct {
	mu         sync.Mutex
	dimensions int
	model      string
	fixed      map[string][]float64
	degraded   bool // when true, embeddings report the fallback source
	calls      int
}

// NewMockEmbeddingService creates a new MockEmbeddingService
func NewMockEmbeddingService() *MockEmbeddingService {
	return &MockEmbeddingService{
		dimensions: 8,
		model:      "mock-embedding-model",
		fixed:      make(map[string][]float64),
	}
}

// SetVector fixes the vector returned for a specific text
func (m *MockEmbeddingService) SetVector(text string, vector []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixed[text] = vector
}

// SetDegraded makes subsequent embeddings report the fallback source
func (m *MockEmbeddingService) SetDegraded(degraded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.degraded = degraded
}

// Calls returns how many embeddings were requested
func (m *MockEmbeddingService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockEmbeddingService) Embed(ctx context.Context, text string) (*driven.Embedding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	source := driven.EmbeddingSourceRemote
	if m.degraded {
		source = driven.EmbeddingSourceFallback
	}
	if v, ok := m.fixed[text]; ok {
		return &driven.Embedding{Vector: v, Source: source}, nil
	}
	return &driven.Embedding{Vector: m.generateVector(text), Source: source}, nil
}

func (m *MockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([]*driven.Embedding, error) {
	result := make([]*driven.Embedding, len(texts))
	for i, text := range texts {
		emb, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = emb
	}
	return result, nil
}

func (m *MockEmbeddingService) Dimensions() int {
	return m.dimensions
}

func (m *MockEmbeddingService) Model() string {
	return m.model
}

func (m *MockEmbeddingService) HealthCheck(ctx context.Context) error {
	return nil
}

func (m *MockEmbeddingService) Close() error {
	return nil
}

// generateVector generates a deterministic vector based on text hash
func (m *MockEmbeddingService) generateVector(text string) []float64 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float64, m.dimensions)
	for i := range vector {
		seed = seed*1103515245 + 12345
		vector[i] = float64(seed%1000) / 1000.0
	}
	return vector
}
