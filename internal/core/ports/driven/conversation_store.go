package driven

import (
	"context"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
)

// ConversationStore persists per-session conversation state, unique on
// the (userID, sessionID) pair. Writes are last-writer-wins; a session
// is practically single-writer.
type ConversationStore interface {
	// Get retrieves the context for a session, domain.ErrNotFound if absent
	Get(ctx context.Context, userID, sessionID string) (*domain.ConversationContext, error)

	// Save creates or replaces the context for its (userID, sessionID) pair
	Save(ctx context.Context, conv *domain.ConversationContext) error
}
