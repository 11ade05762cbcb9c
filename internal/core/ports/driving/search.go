package driving

import (
	"context"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
)

// SearchService performs ranked retrieval over the document base.
// Both operations degrade to an empty result list on internal failure;
// they never surface storage or provider errors to the caller.
type SearchService interface {
	// SearchSimilar runs pure vector search: embed the query, score
	// stored vectors by cosine similarity, drop candidates below
	// threshold, rerank by the combined similarity/relevance score.
	SearchSimilar(ctx context.Context, query string, filter *domain.DocumentFilter, limit int, threshold float64) []*domain.SearchResult

	// HybridSearch merges the vector leg (threshold 0.5) with the
	// store's keyword search: shared documents average their similarity
	// and take the max relevance, then the merged list is re-ranked.
	HybridSearch(ctx context.Context, query string, filter *domain.DocumentFilter, limit int) []*domain.SearchResult
}
