package services

import (
	"context"
	"errors"
	"testing"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
	"github.com/verdant-labs/wellspring-core/internal/core/ports/driven/mocks"
)

func TestConversationService_GetOrCreate(t *testing.T) {
	store := mocks.NewMockConversationStore()
	svc := NewConversationService(store)

	conv, err := svc.GetOrCreate(context.Background(), "user-1", "session-1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if conv.MessageCount != 0 {
		t.Errorf("expected an empty context, got %d messages", conv.MessageCount)
	}

	// The created context persists.
	if _, err := store.Get(context.Background(), "user-1", "session-1"); err != nil {
		t.Errorf("expected the context to be saved: %v", err)
	}

	again, err := svc.GetOrCreate(context.Background(), "user-1", "session-1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if again.SessionID != conv.SessionID || again.UserID != conv.UserID {
		t.Error("expected the same session context on the second call")
	}
}

func TestConversationService_GetOrCreateRequiresIDs(t *testing.T) {
	svc := NewConversationService(mocks.NewMockConversationStore())

	if _, err := svc.GetOrCreate(context.Background(), "", "session-1"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty user, got %v", err)
	}
	if _, err := svc.GetOrCreate(context.Background(), "user-1", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty session, got %v", err)
	}
}

func TestConversationService_AppendMessage(t *testing.T) {
	store := mocks.NewMockConversationStore()
	svc := NewConversationService(store)

	if err := svc.AppendMessage(context.Background(), "user-1", "session-1",
		domain.Message{Role: domain.RoleUser, Content: "hello"}); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}
	if err := svc.AppendMessage(context.Background(), "user-1", "session-1",
		domain.Message{Role: domain.RoleAssistant, Content: "hi there"}); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	conv, err := store.Get(context.Background(), "user-1", "session-1")
	if err != nil {
		t.Fatalf("context missing: %v", err)
	}
	if conv.MessageCount != 2 {
		t.Errorf("expected 2 messages, got %d", conv.MessageCount)
	}
	if conv.Messages[1].Role != domain.RoleAssistant {
		t.Errorf("expected assistant turn last, got %q", conv.Messages[1].Role)
	}
}

func TestConversationService_UpdateProfile(t *testing.T) {
	store := mocks.NewMockConversationStore()
	svc := NewConversationService(store)

	profile := domain.UserProfile{
		Conditions: []string{"hypertension"},
		Goals:      []string{"better sleep"},
		Style:      domain.StyleFriendly,
	}
	if err := svc.UpdateProfile(context.Background(), "user-1", "session-1", profile); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	conv, err := store.Get(context.Background(), "user-1", "session-1")
	if err != nil {
		t.Fatalf("context missing: %v", err)
	}
	if len(conv.Profile.Conditions) != 1 || conv.Profile.Conditions[0] != "hypertension" {
		t.Errorf("unexpected profile conditions %v", conv.Profile.Conditions)
	}
	if conv.Profile.Style != domain.StyleFriendly {
		t.Errorf("unexpected style %q", conv.Profile.Style)
	}
}

func TestConversationService_History(t *testing.T) {
	store := mocks.NewMockConversationStore()
	svc := NewConversationService(store)

	for _, content := range []string{"one", "two", "three", "four"} {
		if err := svc.AppendMessage(context.Background(), "user-1", "session-1",
			domain.Message{Role: domain.RoleUser, Content: content}); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
	}

	recent, err := svc.History(context.Background(), "user-1", "session-1", 2)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(recent))
	}
	if recent[0].Content != "three" || recent[1].Content != "four" {
		t.Errorf("expected the newest turns in order, got %q then %q", recent[0].Content, recent[1].Content)
	}
}

func TestConversationService_HistoryUnknownSession(t *testing.T) {
	svc := NewConversationService(mocks.NewMockConversationStore())

	if _, err := svc.History(context.Background(), "user-1", "missing", 5); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
