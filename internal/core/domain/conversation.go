package domain

import (
	"strings"
	"time"
)

// MessageRole identifies the author of a conversation turn
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// CommunicationStyle is the user's preferred tone for generated responses
type CommunicationStyle string

const (
	StyleProfessional CommunicationStyle = "professional"
	StyleFriendly     CommunicationStyle = "friendly"
	StyleDirect       CommunicationStyle = "direct"
)

// Message is a single conversation turn
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	Topic     string      `json:"topic,omitempty"`
	Sentiment string      `json:"sentiment,omitempty"`
}

// UserProfile holds the wellness context declared by the user.
// Every field may be empty; prompt assembly substitutes explicit
// placeholders rather than omitting sections.
type UserProfile struct {
	Conditions   []string           `json:"conditions,omitempty"`
	Medications  []string           `json:"medications,omitempty"`
	Goals        []string           `json:"goals,omitempty"`
	RecentTopics []string           `json:"recent_topics,omitempty"`
	Style        CommunicationStyle `json:"style,omitempty"`
}

// ConversationContext is the per-session conversation state, unique on
// the (UserID, SessionID) pair. Messages are append-only and ordered;
// MessageCount always equals len(Messages).
type ConversationContext struct {
	UserID       string      `json:"user_id"`
	SessionID    string      `json:"session_id"`
	Messages     []Message   `json:"messages"`
	Profile      UserProfile `json:"profile"`
	MessageCount int         `json:"message_count"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewConversationContext creates an empty context for a session
func NewConversationContext(userID, sessionID string) *ConversationContext {
	return &ConversationContext{
		UserID:    userID,
		SessionID: sessionID,
		Messages:  []Message{},
		UpdatedAt: time.Now(),
	}
}

// Append adds a message, keeping MessageCount in sync and timestamps
// monotonic: a message stamped before the previous one is bumped to it.
func (c *ConversationContext) Append(msg Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	if n := len(c.Messages); n > 0 && msg.Timestamp.Before(c.Messages[n-1].Timestamp) {
		msg.Timestamp = c.Messages[n-1].Timestamp
	}
	c.Messages = append(c.Messages, msg)
	c.MessageCount = len(c.Messages)
	c.UpdatedAt = msg.Timestamp
}

// LastMessage returns the most recent message, or nil if none
func (c *ConversationContext) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// Stopped reports whether the conversation was halted by a stop request.
// The check is lexical: the most recent stored message contains "stop".
func (c *ConversationContext) Stopped() bool {
	last := c.LastMessage()
	if last == nil {
		return false
	}
	return strings.Contains(strings.ToLower(last.Content), "stop")
}

// RecentTurns returns the last n messages in order
func (c *ConversationContext) RecentTurns(n int) []Message {
	if n <= 0 || len(c.Messages) == 0 {
		return nil
	}
	if len(c.Messages) <= n {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-n:]
}
