package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestCombinedScore(t *testing.T) {
	r := &SearchResult{Similarity: 0.8, Relevance: 0.5}

	got := r.CombinedScore()
	want := 0.7*0.8 + 0.3*0.5
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestCacheKey_Deterministic(t *testing.T) {
	filter := &DocumentFilter{Categories: []Category{CategoryLifestyle}}

	k1 := CacheKey("How do I sleep better?", filter, "user-1", 10)
	k2 := CacheKey("How do I sleep better?", filter, "user-1", 10)
	if k1 != k2 {
		t.Errorf("same inputs must produce the same key: %s vs %s", k1, k2)
	}
}

func TestCacheKey_NormalizesQuery(t *testing.T) {
	k1 := CacheKey("  How do I sleep better?  ", nil, "user-1", 10)
	k2 := CacheKey("how do i sleep BETTER?", nil, "user-1", 10)
	if k1 != k2 {
		t.Error("keys must be insensitive to case and surrounding whitespace")
	}
}

func TestCacheKey_DivergesPerInput(t *testing.T) {
	base := CacheKey("sleep", nil, "user-1", 10)

	if CacheKey("exercise", nil, "user-1", 10) == base {
		t.Error("different query must change the key")
	}
	if CacheKey("sleep", &DocumentFilter{Sources: []string{"cdc"}}, "user-1", 10) == base {
		t.Error("different filter must change the key")
	}
	if CacheKey("sleep", nil, "user-2", 10) == base {
		t.Error("different user must change the key")
	}
	if CacheKey("sleep", nil, "", 10) == base {
		t.Error("anonymous scope must differ from a user scope")
	}
	if CacheKey("sleep", nil, "user-1", 5) == base {
		t.Error("different limit must change the key")
	}
}

func TestSplitProcessingTime(t *testing.T) {
	pt := SplitProcessingTime(100 * time.Millisecond)

	if pt.TotalMs != 100 {
		t.Errorf("expected total 100ms, got %d", pt.TotalMs)
	}
	if pt.VectorSearchMs != 70 {
		t.Errorf("expected vector share 70ms, got %d", pt.VectorSearchMs)
	}
	if pt.RerankingMs != 30 {
		t.Errorf("expected reranking share 30ms, got %d", pt.RerankingMs)
	}
}

func TestRetrievalResponse_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	resp := &RetrievalResponse{
		Results: []*SearchResult{
			{
				Document:   &Document{ID: "doc-1", Title: "Sleep hygiene", Category: CategoryLifestyle},
				Similarity: 0.91,
				Relevance:  0.4,
				Context:    "Keep a consistent schedule.",
			},
		},
		TotalResults: 1,
		Sources:      []string{"cdc"},
		Confidence:   0.8,
		Model:        "wellspring-rag",
		Timestamp:    now,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded RetrievalResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !decoded.Timestamp.Equal(now) {
		t.Errorf("timestamp did not round-trip: %v", decoded.Timestamp)
	}
	if decoded.Results[0].Document.ID != "doc-1" {
		t.Errorf("unexpected document: %+v", decoded.Results[0].Document)
	}
	if decoded.Results[0].Similarity != 0.91 {
		t.Errorf("similarity did not round-trip: %f", decoded.Results[0].Similarity)
	}
}

func TestDocumentFilter_CanonicalJSON(t *testing.T) {
	var nilFilter *DocumentFilter
	if nilFilter.CanonicalJSON() != "" {
		t.Error("nil filter must serialize to the empty string")
	}

	owner := "user-1"
	f := &DocumentFilter{
		Categories: []Category{CategoryCondition},
		OwnerID:    &owner,
	}
	if f.CanonicalJSON() != f.CanonicalJSON() {
		t.Error("canonical JSON must be stable")
	}
}
