package services

import (
	"context"
	"errors"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driving"
)

// Ensure conversationService implements ConversationService
var _ driving.ConversationService = (*conversationService)(nil)

// conversationService manages per-session conversation state
type conversationService struct {
	store driven.ConversationStore
}

// NewConversationService creates a new ConversationService
func NewConversationService(store driven.ConversationStore) driving.ConversationService {
	return &conversationService{store: store}
}

// GetOrCreate loads the context for a session, creating it lazily
func (s *conversationService) GetOrCreate(ctx context.Context, userID, sessionID string) (*domain.ConversationContext, error) {
	if userID == "" || sessionID == "" {
		return nil, domain.ErrInvalidInput
	}

	conv, err := s.store.Get(ctx, userID, sessionID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	conv = domain.NewConversationContext(userID, sessionID)
	if err := s.store.Save(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// AppendMessage appends a turn and persists the context
func (s *conversationService) AppendMessage(ctx context.Context, userID, sessionID string, msg domain.Message) error {
	conv, err := s.GetOrCreate(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	conv.Append(msg)
	return s.store.Save(ctx, conv)
}

// UpdateProfile replaces the user's declared wellness profile
func (s *conversationService) UpdateProfile(ctx context.Context, userID, sessionID string, profile domain.UserProfile) error {
	conv, err := s.GetOrCreate(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	conv.Profile = profile
	return s.store.Save(ctx, conv)
}

// History returns the most recent turns, newest last
func (s *conversationService) History(ctx context.Context, userID, sessionID string, limit int) ([]domain.Message, error) {
	conv, err := s.store.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return conv.RecentTurns(limit), nil
}
