package driving

import (
	"context"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
)

// ConversationService manages per-session conversation state
type ConversationService interface {
	// GetOrCreate loads the context for a session, creating it lazily
	// on first use
	GetOrCreate(ctx context.Context, userID, sessionID string) (*domain.ConversationContext, error)

	// AppendMessage appends a turn and persists the context
	AppendMessage(ctx context.Context, userID, sessionID string, msg domain.Message) error

	// UpdateProfile replaces the user's declared wellness profile
	UpdateProfile(ctx context.Context, userID, sessionID string, profile domain.UserProfile) error

	// History returns the most recent turns, newest last
	History(ctx context.Context, userID, sessionID string, limit int) ([]domain.Message, error)
}
