package services

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driving"
	"github.com/verdant-labs/wellspring-core/internal/runtime"
)

// Ensure searchService implements SearchService
var _ driving.SearchService = (*searchService)(nil)

const (
	defaultSearchLimit = 10

	// hybridVectorThreshold gates the vector leg of hybrid search
	hybridVectorThreshold = 0.5

	// overFetchFactor leaves headroom for threshold rejection and reranking
	overFetchFactor = 2
)

// searchService implements ranked retrieval over the document base.
// Embedding is accessed dynamically via runtime.Services so providers
// configured after startup are picked up.
type searchService struct {
	documentStore driven.DocumentStore
	services      *runtime.Services
	logger        *slog.Logger
}

// NewSearchService creates a new SearchService
func NewSearchService(
	documentStore driven.DocumentStore,
	services *runtime.Services,
	logger *slog.Logger,
) driving.SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &searchService{
		documentStore: documentStore,
		services:      services,
		logger:        logger,
	}
}

// SearchSimilar performs pure vector search with lexical reranking.
// Every failure path degrades to an empty result list; retrieval never
// fails the caller.
func (s *searchService) SearchSimilar(ctx context.Context, query string, filter *domain.DocumentFilter, limit int, threshold float64) []*domain.SearchResult {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	embedder := s.services.EmbeddingService()
	if embedder == nil {
		s.logger.Warn("vector search skipped: no embedding service configured")
		return []*domain.SearchResult{}
	}

	queryEmbedding, err := embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Error("query embedding failed", "error", err)
		return []*domain.SearchResult{}
	}

	candidates, err := s.loadCandidates(ctx, filter, overFetchFactor*limit)
	if err != nil {
		s.logger.Error("candidate load failed", "error", err)
		return []*domain.SearchResult{}
	}

	results := make([]*domain.SearchResult, 0, len(candidates))
	for _, doc := range candidates {
		similarity, err := domain.Cosine(queryEmbedding.Vector, doc.Embedding)
		if err != nil {
			// Vector from a different model/dimension; not comparable.
			s.logger.Warn("skipping candidate with mismatched embedding", "document_id", doc.ID)
			continue
		}
		similarity = domain.ClampScore(similarity)
		if similarity < threshold {
			continue
		}

		results = append(results, &domain.SearchResult{
			Document:   doc,
			Similarity: similarity,
			Relevance:  lexicalRelevance(query, doc),
			Context:    extractContext(query, doc.Content),
		})
	}

	sortByCombinedScore(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// HybridSearch runs the vector and keyword legs in parallel and merges
// them: documents in both lists average their similarity and take the
// max relevance; documents in one list are kept as-is.
func (s *searchService) HybridSearch(ctx context.Context, query string, filter *domain.DocumentFilter, limit int) []*domain.SearchResult {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	var vectorResults []*domain.SearchResult
	var keywordResults []*domain.SearchResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vectorResults = s.SearchSimilar(gctx, query, filter, limit, hybridVectorThreshold)
		return nil
	})
	g.Go(func() error {
		keywordResults = s.keywordSearch(gctx, query, filter, limit)
		return nil
	})
	// Both legs degrade internally; Wait only propagates context errors.
	_ = g.Wait()

	merged := mergeResults(vectorResults, keywordResults)
	sortByCombinedScore(merged)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// keywordSearch runs the store's native full-text search and adapts the
// matches to SearchResults, with the native rank as the similarity
// signal and lexical relevance computed the same way as the vector leg.
func (s *searchService) keywordSearch(ctx context.Context, query string, filter *domain.DocumentFilter, limit int) []*domain.SearchResult {
	matches, err := s.documentStore.TextSearch(ctx, query, filter, limit)
	if err != nil {
		s.logger.Error("keyword search failed", "error", err)
		return []*domain.SearchResult{}
	}

	results := make([]*domain.SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, &domain.SearchResult{
			Document:   m.Document,
			Similarity: domain.ClampScore(m.Rank),
			Relevance:  lexicalRelevance(query, m.Document),
			Context:    extractContext(query, m.Document.Content),
		})
	}
	return results
}

// loadCandidates fetches embedded documents matching the filter
func (s *searchService) loadCandidates(ctx context.Context, filter *domain.DocumentFilter, limit int) ([]*domain.Document, error) {
	f := domain.DocumentFilter{RequireEmbedding: true}
	if filter != nil {
		f = *filter
		f.RequireEmbedding = true
	}
	return s.documentStore.List(ctx, &f, limit)
}

// mergeResults combines the vector and keyword result lists by document ID
func mergeResults(vector, keyword []*domain.SearchResult) []*domain.SearchResult {
	byID := make(map[string]*domain.SearchResult, len(vector)+len(keyword))
	order := make([]string, 0, len(vector)+len(keyword))

	for _, r := range vector {
		byID[r.Document.ID] = r
		order = append(order, r.Document.ID)
	}

	for _, r := range keyword {
		if existing, ok := byID[r.Document.ID]; ok {
			existing.Similarity = (existing.Similarity + r.Similarity) / 2
			if r.Relevance > existing.Relevance {
				existing.Relevance = r.Relevance
			}
			continue
		}
		byID[r.Document.ID] = r
		order = append(order, r.Document.ID)
	}

	merged := make([]*domain.SearchResult, 0, len(order))
	for _, id := range order {
		merged = append(merged, byID[id])
	}
	return merged
}

// sortByCombinedScore orders results by the blended score, descending
func sortByCombinedScore(results []*domain.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CombinedScore() > results[j].CombinedScore()
	})
}
