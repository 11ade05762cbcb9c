package mocks

import (
	"context"
	"sync"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
)

// MockConversationStore is an in-memory ConversationStore for testing
type MockConversationStore struct {
	mu       sync.RWMutex
	contexts map[string]*domain.ConversationContext
}

// NewMockConversationStore creates a new MockConversationStore
func NewMockConversationStore() *MockConversationStore {
	return &MockConversationStore{
		contexts: make(map[string]*domain.ConversationContext),
	}
}

func convKey(userID, sessionID string) string {
	return userID + "/" + sessionID
}

func (m *MockConversationStore) Get(ctx context.Context, userID, sessionID string) (*domain.ConversationContext, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conv, ok := m.contexts[convKey(userID, sessionID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return conv, nil
}

func (m *MockConversationStore) Save(ctx context.Context, conv *domain.ConversationContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contexts[convKey(conv.UserID, conv.SessionID)] = conv
	return nil
}
