package driven

// EmbeddingSettings configures an embedding provider
type EmbeddingSettings struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// IsConfigured reports whether the settings name a provider
func (s *EmbeddingSettings) IsConfigured() bool {
	return s != nil && s.Provider != ""
}

// CompletionSettings configures a completion provider
type CompletionSettings struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// IsConfigured reports whether the settings name a provider
func (s *CompletionSettings) IsConfigured() bool {
	return s != nil && s.Provider != ""
}

// AIServiceFactory creates AI services from settings
type AIServiceFactory interface {
	// CreateEmbeddingService builds an embedding service, or nil when
	// settings are absent
	CreateEmbeddingService(settings *EmbeddingSettings) (EmbeddingService, error)

	// CreateCompletionService builds a completion service, or nil when
	// settings are absent
	CreateCompletionService(settings *CompletionSettings) (CompletionService, error)
}
