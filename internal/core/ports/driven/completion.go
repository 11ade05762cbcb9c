package driven

import (
	"context"
)

// CompletionMessage is one role/content pair in a completion request
type CompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the provider-facing text generation request
type CompletionRequest struct {
	Messages    []CompletionMessage `json:"messages"`
	MaxTokens   int                 `json:"max_tokens"`
	Temperature float64             `json:"temperature"`
	TopP        float64             `json:"top_p"`
}

// CompletionResponse is the provider's answer
type CompletionResponse struct {
	Content    string `json:"content"`
	TokensUsed int    `json:"tokens_used"`
}

// CompletionService provides text generation via a hosted model.
// The call blocks on network I/O and must honor ctx cancellation so the
// generation registry can abort it mid-flight.
type CompletionService interface {
	// Complete sends the request and returns the first choice's content.
	// A response with no valid choices is an error.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the completion service is available
	Ping(ctx context.Context) error

	// Close releases resources held by the service
	Close() error
}
