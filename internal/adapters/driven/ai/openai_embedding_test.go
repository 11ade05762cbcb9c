package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
)

func TestNewOpenAIEmbedding_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIEmbedding("", "text-embedding-3-small", "")
	if err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestNewOpenAIEmbedding_Defaults(t *testing.T) {
	svc, err := NewOpenAIEmbedding("sk-test", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	emb := svc.(*OpenAIEmbedding)
	if emb.model != "text-embedding-3-small" {
		t.Errorf("expected default model text-embedding-3-small, got %s", emb.model)
	}
	if emb.baseURL != "https://api.openai.com/v1" {
		t.Errorf("expected default base URL, got %s", emb.baseURL)
	}
}

func TestOpenAIEmbedding_Dimensions(t *testing.T) {
	testCases := []struct {
		model      string
		dimensions int
	}{
		{"text-embedding-3-small", 1536},
		{"text-embedding-3-large", 3072},
		{"unknown-model", 1024}, // defaults to the reference dimension
	}

	for _, tc := range testCases {
		t.Run(tc.model, func(t *testing.T) {
			svc, err := NewOpenAIEmbedding("sk-test", tc.model, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if svc.Dimensions() != tc.dimensions {
				t.Errorf("expected dimensions %d, got %d", tc.dimensions, svc.Dimensions())
			}
		})
	}
}

func TestOpenAIEmbedding_RemoteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", auth)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 0, "embedding": []float64{0.1, 0.2, 0.3}},
			},
		})
	}))
	defer server.Close()

	svc, err := NewOpenAIEmbedding("sk-test", "text-embedding-3-small", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	emb, err := svc.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if emb.Source != driven.EmbeddingSourceRemote {
		t.Errorf("expected remote source, got %s", emb.Source)
	}
	if len(emb.Vector) != 3 || emb.Vector[0] != 0.1 {
		t.Errorf("unexpected vector %v", emb.Vector)
	}
}

func TestOpenAIEmbedding_RemoteFailureFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc, err := NewOpenAIEmbedding("sk-test", "text-embedding-3-small", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	emb, err := svc.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Embed must not surface remote errors: %v", err)
	}
	if emb.Source != driven.EmbeddingSourceFallback {
		t.Errorf("expected fallback source, got %s", emb.Source)
	}
	if len(emb.Vector) != svc.Dimensions() {
		t.Errorf("expected a %d-dim fallback vector, got %d", svc.Dimensions(), len(emb.Vector))
	}

	// Same text, same fallback vector.
	again, _ := svc.Embed(context.Background(), "some text")
	for i := range emb.Vector {
		if emb.Vector[i] != again.Vector[i] {
			t.Fatal("fallback vector must be deterministic")
		}
	}

	// Different text, different vector.
	other, _ := svc.Embed(context.Background(), "different text")
	same := true
	for i := range emb.Vector {
		if emb.Vector[i] != other.Vector[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("distinct texts must not share a fallback vector")
	}
}

func TestOpenAIEmbedding_APIErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "invalid key", "type": "auth", "code": "401"},
		})
	}))
	defer server.Close()

	svc, _ := NewOpenAIEmbedding("sk-bad", "text-embedding-3-small", server.URL)
	emb, err := svc.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("Embed must not surface API errors: %v", err)
	}
	if !emb.Fallback() {
		t.Error("expected the fallback path")
	}
}

func TestOpenAIEmbedding_EmbedBatchOrder(t *testing.T) {
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		json.NewDecoder(r.Body).Decode(&req)
		calls = append(calls, req.Input)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 0, "embedding": []float64{float64(len(calls))}},
			},
		})
	}))
	defer server.Close()

	svc, _ := NewOpenAIEmbedding("sk-test", "text-embedding-3-small", server.URL)
	embeddings, err := svc.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedBatch failed: %v", err)
	}
	if len(embeddings) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(embeddings))
	}
	if calls[0] != "a" || calls[1] != "b" || calls[2] != "c" {
		t.Errorf("expected sequential in-order calls, got %v", calls)
	}
	if embeddings[0].Vector[0] != 1 || embeddings[2].Vector[0] != 3 {
		t.Error("expected output order to match input order")
	}
}

func TestOpenAIEmbedding_HealthCheckSurfacesErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc, _ := NewOpenAIEmbedding("sk-test", "text-embedding-3-small", server.URL)
	if err := svc.HealthCheck(context.Background()); err == nil {
		t.Error("expected HealthCheck to report the remote failure")
	}
}

func TestFallbackEmbedding(t *testing.T) {
	svc := NewFallbackEmbedding(0)
	if svc.Dimensions() != defaultDimensions {
		t.Errorf("expected the reference dimension, got %d", svc.Dimensions())
	}

	emb, err := svc.Embed(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if !emb.Fallback() {
		t.Error("expected fallback provenance")
	}
	for _, v := range emb.Vector {
		if v < -1 || v > 1 {
			t.Fatalf("fallback components must stay bounded, got %f", v)
		}
	}
}
