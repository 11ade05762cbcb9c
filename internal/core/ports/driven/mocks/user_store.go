package mocks

import (
	"context"
	"sync"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
)

// MockUserStore is an in-memory UserStore for testing
type MockUserStore struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// failNext has its own mutex: takeFailure writes it from paths that
	// hold mu only for reading (GetByEmail).
	failMu   sync.Mutex
	failNext error
}

// NewMockUserStore creates a new MockUserStore
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		users: make(map[string]*domain.User),
	}
}

// SetFailNext makes the next store call return err
func (m *MockUserStore) SetFailNext(err error) {
	m.failMu.Lock()
	defer m.failMu.Unlock()
	m.failNext = err
}

func (m *MockUserStore) takeFailure() error {
	m.failMu.Lock()
	defer m.failMu.Unlock()
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *MockUserStore) Save(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	return nil
}
