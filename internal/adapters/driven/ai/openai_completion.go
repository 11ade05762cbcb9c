package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
)

// Ensure OpenAICompletion implements CompletionService
var _ driven.CompletionService = (*OpenAICompletion)(nil)

// OpenAICompletion implements CompletionService against OpenAI's chat
// completions API. The request carries the caller's context so an
// in-flight generation can be aborted mid-call.
type OpenAICompletion struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAICompletion creates a new OpenAI completion service
func NewOpenAICompletion(apiKey, model, baseURL string) (driven.CompletionService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAICompletion{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// chatRequest is the request body for OpenAI chat completions API
type chatRequest struct {
	Model       string                     `json:"model"`
	Messages    []driven.CompletionMessage `json:"messages"`
	MaxTokens   int                        `json:"max_tokens,omitempty"`
	Temperature float64                    `json:"temperature,omitempty"`
	TopP        float64                    `json:"top_p,omitempty"`
	Stream      bool                       `json:"stream"`
}

// chatResponse is the response from OpenAI chat completions API
type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Complete sends the chat request and returns the first choice's content
func (c *OpenAICompletion) Complete(ctx context.Context, req driven.CompletionRequest) (*driven.CompletionResponse, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Stream:      false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		return nil, fmt.Errorf("OpenAI API error: %s (type: %s, code: %s)",
			chatResp.Error.Message, chatResp.Error.Type, chatResp.Error.Code)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAI API returned status %d", resp.StatusCode)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("no valid choices in response")
	}

	return &driven.CompletionResponse{
		Content:    chatResp.Choices[0].Message.Content,
		TokensUsed: chatResp.Usage.TotalTokens,
	}, nil
}

// Model returns the model name being used
func (c *OpenAICompletion) Model() string {
	return c.model
}

// Ping verifies the completion service is available
func (c *OpenAICompletion) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OpenAI API returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources held by the completion service
func (c *OpenAICompletion) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
