package domain

import "sync"

// Supported AI providers
const (
	AIProviderOpenAI   = "openai"
	AIProviderFallback = "fallback"
)

// RuntimeConfig tracks which services are available at runtime.
// Cache backend is fixed at startup; AI capability flags change when
// providers are configured or torn down. Thread-safe.
type RuntimeConfig struct {
	mu sync.RWMutex

	// Static (set at startup, read-only)
	CacheBackend string // "redis" or "memory"

	// Dynamic capability flags
	embeddingAvailable  bool
	completionAvailable bool
}

// NewRuntimeConfig creates a new RuntimeConfig with initial values
func NewRuntimeConfig(cacheBackend string) *RuntimeConfig {
	return &RuntimeConfig{
		CacheBackend: cacheBackend,
	}
}

// EmbeddingAvailable returns whether an embedding provider is configured
func (c *RuntimeConfig) EmbeddingAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.embeddingAvailable
}

// CompletionAvailable returns whether a completion provider is configured
func (c *RuntimeConfig) CompletionAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.completionAvailable
}

// SetEmbeddingAvailable updates the embedding availability flag
func (c *RuntimeConfig) SetEmbeddingAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embeddingAvailable = available
}

// SetCompletionAvailable updates the completion availability flag
func (c *RuntimeConfig) SetCompletionAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completionAvailable = available
}

// CanDoSemanticSearch returns true if the vector leg of hybrid search can run
func (c *RuntimeConfig) CanDoSemanticSearch() bool {
	return c.EmbeddingAvailable()
}

// CanGenerate returns true if contextual responses can be generated
func (c *RuntimeConfig) CanGenerate() bool {
	return c.CompletionAvailable()
}
