package mocks

import (
	"context"
	"sync"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
)

// MockCompletionService is a mock implementation of CompletionService for testing
type MockCompletionService struct {
	mu       sync.Mutex
	reply    string
	failNext bool

	// blockCh, when set, makes Complete wait until the channel closes or
	// the context is cancelled. Used for cancellation tests.
	blockCh chan struct{}

	requests []driven.CompletionRequest
}

// NewMockCompletionService creates a new MockCompletionService
func NewMockCompletionService() *MockCompletionService {
	return &MockCompletionService{
		reply: "mock reply",
	}
}

// SetReply fixes the content returned by Complete
func (m *MockCompletionService) SetReply(reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reply = reply
}

// SetFailNext makes the next Complete call fail
func (m *MockCompletionService) SetFailNext(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = fail
}

// Block makes Complete hang until Unblock is called or ctx is cancelled
func (m *MockCompletionService) Block() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blockCh = make(chan struct{})
}

// Unblock releases a blocked Complete call
func (m *MockCompletionService) Unblock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blockCh != nil {
		close(m.blockCh)
		m.blockCh = nil
	}
}

// Requests returns the requests seen so far
func (m *MockCompletionService) Requests() []driven.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]driven.CompletionRequest(nil), m.requests...)
}

func (m *MockCompletionService) Complete(ctx context.Context, req driven.CompletionRequest) (*driven.CompletionResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	block := m.blockCh
	fail := m.failNext
	m.failNext = false
	reply := m.reply
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if fail {
		return nil, domain.ErrProviderUnavailable
	}

	return &driven.CompletionResponse{Content: reply, TokensUsed: len(reply)}, nil
}

func (m *MockCompletionService) Model() string {
	return "mock-completion-model"
}

func (m *MockCompletionService) Ping(ctx context.Context) error {
	return nil
}

func (m *MockCompletionService) Close() error {
	return nil
}
