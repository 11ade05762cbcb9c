package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verdant-labs/wellspring-core/internal/chunker"
	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driving"
	"github.com/verdant-labs/wellspring-core/internal/runtime"
)

// Ensure documentService implements DocumentService
var _ driving.DocumentService = (*documentService)(nil)

const (
	// embedChunkSize bounds the text sent per embedding call; longer
	// content is chunked and the vectors averaged
	embedChunkSize    = 1000
	embedChunkOverlap = 200
)

// documentService manages knowledge-base documents. Embeddings are
// computed synchronously at creation and recomputed only when content
// changes.
type documentService struct {
	documentStore driven.DocumentStore
	taskQueue     driven.TaskQueue // nil when background ingest is not configured
	services      *runtime.Services
	chunks        *chunker.Chunker
	logger        *slog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documentStore driven.DocumentStore,
	taskQueue driven.TaskQueue,
	services *runtime.Services,
	logger *slog.Logger,
) driving.DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentService{
		documentStore: documentStore,
		taskQueue:     taskQueue,
		services:      services,
		chunks:        chunker.New(embedChunkSize, embedChunkOverlap),
		logger:        logger,
	}
}

// Create validates and stores a document with its embedding
func (s *documentService) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	doc.Embedding = s.computeEmbedding(ctx, doc.Content)

	if err := s.documentStore.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get retrieves a document by ID
func (s *documentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.documentStore.Get(ctx, id)
}

// Update stores changed fields, re-embedding only on content change
func (s *documentService) Update(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.documentStore.Get(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	if doc.Content != existing.Content {
		doc.Embedding = s.computeEmbedding(ctx, doc.Content)
	} else {
		doc.Embedding = existing.Embedding
	}
	doc.CreatedAt = existing.CreatedAt
	doc.UsageCount = existing.UsageCount
	doc.UpdatedAt = time.Now()

	if err := s.documentStore.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes a document
func (s *documentService) Delete(ctx context.Context, id string) error {
	return s.documentStore.Delete(ctx, id)
}

// List returns documents matching the filter
func (s *documentService) List(ctx context.Context, filter *domain.DocumentFilter, limit int) ([]*domain.Document, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.documentStore.List(ctx, filter, limit)
}

// BulkLoad enqueues a batch for background ingestion. Falls back to
// synchronous ingestion when no queue is configured.
func (s *documentService) BulkLoad(ctx context.Context, docs []*domain.Document) (string, error) {
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			return "", err
		}
	}

	if s.taskQueue == nil {
		for _, doc := range docs {
			if _, err := s.Create(ctx, doc); err != nil {
				return "", err
			}
		}
		return "", nil
	}

	task, err := domain.NewIngestTask(docs)
	if err != nil {
		return "", err
	}
	if err := s.taskQueue.Enqueue(ctx, task); err != nil {
		return "", err
	}
	return task.ID, nil
}

// Ingest embeds and stores a batch of documents. Called by the worker
// for queued bulk loads.
func (s *documentService) Ingest(ctx context.Context, docs []*domain.Document) error {
	for _, doc := range docs {
		if _, err := s.Create(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// computeEmbedding embeds content, chunking long text and averaging the
// chunk vectors. Returns nil when no embedder is configured; the
// document is then stored without a vector and excluded from the vector
// leg until re-embedded.
func (s *documentService) computeEmbedding(ctx context.Context, content string) []float64 {
	embedder := s.services.EmbeddingService()
	if embedder == nil {
		s.logger.Warn("document stored without embedding: no embedding service configured")
		return nil
	}

	pieces := s.chunks.Chunk(content)
	if len(pieces) == 0 {
		return nil
	}
	if len(pieces) == 1 {
		emb, err := embedder.Embed(ctx, pieces[0])
		if err != nil {
			s.logger.Error("embedding failed", "error", err)
			return nil
		}
		return emb.Vector
	}

	embeddings, err := embedder.EmbedBatch(ctx, pieces)
	if err != nil {
		s.logger.Error("batch embedding failed", "error", err)
		return nil
	}
	return averageVectors(embeddings)
}

// averageVectors computes the element-wise mean of equal-length vectors
func averageVectors(embeddings []*driven.Embedding) []float64 {
	if len(embeddings) == 0 {
		return nil
	}
	dim := len(embeddings[0].Vector)
	avg := make([]float64, dim)
	count := 0
	for _, e := range embeddings {
		if len(e.Vector) != dim {
			continue
		}
		for i, v := range e.Vector {
			avg[i] += v
		}
		count++
	}
	if count == 0 {
		return nil
	}
	for i := range avg {
		avg[i] /= float64(count)
	}
	return avg
}
