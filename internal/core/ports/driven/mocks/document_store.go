package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
)

// MockDocumentStore is an in-memory DocumentStore for testing
type MockDocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*domain.Document

	// failNext has its own mutex: takeFailure writes it from paths that
	// hold mu only for reading (List, TextSearch).
	failMu   sync.Mutex
	failNext error
}

// NewMockDocumentStore creates a new MockDocumentStore
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		documents: make(map[string]*domain.Document),
	}
}

// SetFailNext makes the next store call return err
func (m *MockDocumentStore) SetFailNext(err error) {
	m.failMu.Lock()
	defer m.failMu.Unlock()
	m.failNext = err
}

func (m *MockDocumentStore) takeFailure() error {
	m.failMu.Lock()
	defer m.failMu.Unlock()
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *MockDocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.documents[doc.ID] = doc
	return nil
}

func (m *MockDocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *MockDocumentStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.documents, id)
	return nil
}

func (m *MockDocumentStore) List(ctx context.Context, filter *domain.DocumentFilter, limit int) ([]*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}

	var results []*domain.Document
	for _, doc := range m.documents {
		if filter.Matches(doc) {
			results = append(results, doc)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// TextSearch approximates full-text ranking: title match ranks highest,
// keyword match next, content match least.
func (m *MockDocumentStore) TextSearch(ctx context.Context, query string, filter *domain.DocumentFilter, limit int) ([]*driven.TextMatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}

	queryLower := strings.ToLower(query)
	var matches []*driven.TextMatch
	for _, doc := range m.documents {
		if !filter.Matches(doc) {
			continue
		}
		rank := 0.0
		if strings.Contains(strings.ToLower(doc.Title), queryLower) {
			rank = 1.0
		} else if keywordMatch(doc.Keywords, queryLower) {
			rank = 0.6
		} else if strings.Contains(strings.ToLower(doc.Content), queryLower) {
			rank = 0.3
		}
		if rank > 0 {
			matches = append(matches, &driven.TextMatch{Document: doc, Rank: rank})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Rank > matches[j].Rank })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (m *MockDocumentStore) IncrementUsage(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.UsageCount++
	return nil
}

func keywordMatch(keywords []string, queryLower string) bool {
	for _, kw := range keywords {
		if strings.Contains(queryLower, strings.ToLower(kw)) || strings.Contains(strings.ToLower(kw), queryLower) {
			return true
		}
	}
	return false
}
