package runtime

import (
	"context"
	"testing"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven/mocks"
)

func TestServices_SetEmbeddingService(t *testing.T) {
	config := domain.NewRuntimeConfig("memory")
	services := NewServices(config)

	if services.EmbeddingService() != nil {
		t.Error("expected nil embedding service initially")
	}
	if config.EmbeddingAvailable() {
		t.Error("embedding must not be available initially")
	}

	services.SetEmbeddingService(mocks.NewMockEmbeddingService())

	if services.EmbeddingService() == nil {
		t.Error("expected embedding service after set")
	}
	if !config.EmbeddingAvailable() {
		t.Error("embedding must be available after set")
	}

	services.SetEmbeddingService(nil)
	if config.EmbeddingAvailable() {
		t.Error("embedding must not be available after unset")
	}
}

func TestServices_SetCompletionService(t *testing.T) {
	config := domain.NewRuntimeConfig("memory")
	services := NewServices(config)

	services.SetCompletionService(mocks.NewMockCompletionService())

	if services.CompletionService() == nil {
		t.Error("expected completion service after set")
	}
	if !config.CompletionAvailable() {
		t.Error("completion must be available after set")
	}
}

func TestServices_ValidateAndSet(t *testing.T) {
	config := domain.NewRuntimeConfig("memory")
	services := NewServices(config)

	if err := services.ValidateAndSetEmbedding(context.Background(), mocks.NewMockEmbeddingService()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !config.EmbeddingAvailable() {
		t.Error("embedding must be available after validated set")
	}

	if err := services.ValidateAndSetCompletion(context.Background(), mocks.NewMockCompletionService()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !config.CompletionAvailable() {
		t.Error("completion must be available after validated set")
	}
}

func TestServices_Close(t *testing.T) {
	config := domain.NewRuntimeConfig("memory")
	services := NewServices(config)
	services.SetEmbeddingService(mocks.NewMockEmbeddingService())
	services.SetCompletionService(mocks.NewMockCompletionService())

	if err := services.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if services.EmbeddingService() != nil || services.CompletionService() != nil {
		t.Error("services must be nil after close")
	}
	if config.EmbeddingAvailable() || config.CompletionAvailable() {
		t.Error("capabilities must be cleared after close")
	}
}
