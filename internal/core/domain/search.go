package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Combined ranking weights: similarity carries the semantic signal,
// relevance the lexical/context signal.
const (
	SimilarityWeight = 0.7
	RelevanceWeight  = 0.3
)

// SearchResult pairs a document snapshot with its ranking signals.
// Transient - never persisted.
type SearchResult struct {
	Document   *Document `json:"document"`
	Similarity float64   `json:"similarity"` // [0,1] semantic closeness
	Relevance  float64   `json:"relevance"`  // [0,1] lexical/context match
	Context    string    `json:"context"`    // 1-2 sentences most relevant to the query
}

// CombinedScore is the blended ranking score used for all sorting
func (r *SearchResult) CombinedScore() float64 {
	return SimilarityWeight*r.Similarity + RelevanceWeight*r.Relevance
}

// SearchOptions configures a retrieval request
type SearchOptions struct {
	UserID string          `json:"user_id,omitempty"`
	Filter *DocumentFilter `json:"filter,omitempty"`
	Limit  int             `json:"limit,omitempty"`
}

// ProcessingTime records wall-clock retrieval timing in milliseconds.
// The vector/reranking split is a fixed 70/30 attribution of the total,
// not a measurement.
type ProcessingTime struct {
	TotalMs        int64 `json:"total_ms"`
	VectorSearchMs int64 `json:"vector_search_ms"`
	RerankingMs    int64 `json:"reranking_ms"`
}

// Fixed attribution of processing time between pipeline stages
const (
	vectorSearchShare = 0.7
	rerankingShare    = 0.3
)

// SplitProcessingTime applies the fixed stage attribution to a total
func SplitProcessingTime(total time.Duration) ProcessingTime {
	ms := total.Milliseconds()
	return ProcessingTime{
		TotalMs:        ms,
		VectorSearchMs: int64(float64(ms) * vectorSearchShare),
		RerankingMs:    int64(float64(ms) * rerankingShare),
	}
}

// RetrievalResponse is the envelope returned by the retrieval pipeline.
// It must JSON round-trip exactly, since it is what the response cache
// stores.
type RetrievalResponse struct {
	Response       string         `json:"response"` // blank for search-only calls
	Results        []*SearchResult `json:"results"`
	TotalResults   int            `json:"total_results"`
	ProcessingTime ProcessingTime `json:"processing_time"`
	Sources        []string       `json:"sources"`
	Confidence     float64        `json:"confidence"`
	Model          string         `json:"model"`
	Cached         bool           `json:"cached"`
	Timestamp      time.Time      `json:"timestamp"`
}

// CacheKey derives the response-cache key for a retrieval request.
// Pure function of its inputs: normalized query, canonical filter JSON,
// user scope, and limit. No timestamp or random component.
func CacheKey(query string, filter *DocumentFilter, userID string, limit int) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(query)))
	b.WriteString("|")
	b.WriteString(filter.CanonicalJSON())
	if userID != "" {
		b.WriteString(":user:")
		b.WriteString(userID)
	}
	fmt.Fprintf(&b, "|limit:%d", limit)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
