package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore implements driven.ConversationStore using PostgreSQL.
// Messages and profile are stored as JSONB; writes replace the whole
// row (last-writer-wins, sessions are practically single-writer).
type ConversationStore struct {
	db *DB
}

// NewConversationStore creates a new ConversationStore
func NewConversationStore(db *DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// Get retrieves the context for a session
func (s *ConversationStore) Get(ctx context.Context, userID, sessionID string) (*domain.ConversationContext, error) {
	query := `
		SELECT user_id, session_id, messages, profile, message_count, updated_at
		FROM conversations
		WHERE user_id = $1 AND session_id = $2
	`

	var conv domain.ConversationContext
	var messagesJSON, profileJSON []byte

	err := s.db.QueryRowContext(ctx, query, userID, sessionID).Scan(
		&conv.UserID,
		&conv.SessionID,
		&messagesJSON,
		&profileJSON,
		&conv.MessageCount,
		&conv.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(messagesJSON, &conv.Messages); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(profileJSON, &conv.Profile); err != nil {
		return nil, err
	}

	return &conv, nil
}

// Save creates or replaces the context for its (userID, sessionID) pair
func (s *ConversationStore) Save(ctx context.Context, conv *domain.ConversationContext) error {
	messagesJSON, err := json.Marshal(conv.Messages)
	if err != nil {
		return err
	}
	profileJSON, err := json.Marshal(conv.Profile)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO conversations (user_id, session_id, messages, profile, message_count, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, session_id) DO UPDATE SET
			messages = EXCLUDED.messages,
			profile = EXCLUDED.profile,
			message_count = EXCLUDED.message_count,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		conv.UserID,
		conv.SessionID,
		messagesJSON,
		profileJSON,
		conv.MessageCount,
		conv.UpdatedAt,
	)
	return err
}
