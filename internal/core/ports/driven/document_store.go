package driven

import (
	"context"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
)

// TextMatch is a keyword-search hit with the store's native relevance score
type TextMatch struct {
	Document *domain.Document
	Rank     float64 // store-native text relevance, normalized to [0,1]
}

// DocumentStore persists wellness documents and serves the retrieval
// engine's candidate loading and keyword search.
type DocumentStore interface {
	// Save creates or updates a document
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID, domain.ErrNotFound if missing
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes a document by ID
	Delete(ctx context.Context, id string) error

	// List returns documents matching the filter, up to limit.
	// Owner scoping and the RequireEmbedding predicate are applied here.
	List(ctx context.Context, filter *domain.DocumentFilter, limit int) ([]*domain.Document, error)

	// TextSearch runs the store's native full-text search over title,
	// keywords and content (weighted in that order) against the same
	// filtered set, ranked by text relevance.
	TextSearch(ctx context.Context, query string, filter *domain.DocumentFilter, limit int) ([]*TextMatch, error)

	// IncrementUsage bumps a document's usage counter
	IncrementUsage(ctx context.Context, id string) error
}
