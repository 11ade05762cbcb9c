package driving

import (
	"context"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
)

// DocumentService manages knowledge-base documents
type DocumentService interface {
	// Create validates and stores a document, computing its embedding
	// synchronously
	Create(ctx context.Context, doc *domain.Document) (*domain.Document, error)

	// Get retrieves a document by ID
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Update stores changed fields; the embedding is recomputed only
	// when content changed
	Update(ctx context.Context, doc *domain.Document) (*domain.Document, error)

	// Delete removes a document
	Delete(ctx context.Context, id string) error

	// List returns documents matching the filter
	List(ctx context.Context, filter *domain.DocumentFilter, limit int) ([]*domain.Document, error)

	// BulkLoad enqueues a batch of documents for background ingestion.
	// Returns the task ID for status tracking.
	BulkLoad(ctx context.Context, docs []*domain.Document) (string, error)

	// Ingest embeds and stores a batch synchronously. Called by the
	// background worker for queued bulk loads.
	Ingest(ctx context.Context, docs []*domain.Document) error
}
