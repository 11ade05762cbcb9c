package driving

import (
	"context"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
)

// GenerationRequest asks for a contextual natural-language response
type GenerationRequest struct {
	Query        string
	UserID       string
	SessionID    string
	GenerationID string // optional handle for in-flight cancellation
}

// RetrievalService is the top of the RAG pipeline
type RetrievalService interface {
	// SearchDocuments returns ranked citations for a query, served from
	// the response cache when a fresh entry exists. The envelope's
	// Response field is always blank here; callers wanting an answer
	// use GenerateContextualResponse.
	SearchDocuments(ctx context.Context, query string, opts domain.SearchOptions) (*domain.RetrievalResponse, error)

	// GenerateContextualResponse retrieves context for the query, blends
	// the user's own documents with the general pool, assembles a prompt
	// and delegates to the completion provider. Provider failure yields
	// a canned fallback, never an error; cancellation via the request's
	// GenerationID yields domain.ErrGenerationCancelled.
	GenerateContextualResponse(ctx context.Context, req GenerationRequest) (*domain.GenerationResult, error)

	// CancelGeneration aborts an in-flight generation by id.
	// Returns domain.ErrGenerationNotFound if no such generation is active.
	CancelGeneration(id string) error
}
