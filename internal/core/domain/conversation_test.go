package domain

import (
	"testing"
	"time"
)

func TestConversationContext_Append(t *testing.T) {
	ctx := NewConversationContext("user-1", "session-1")

	ctx.Append(Message{Role: RoleUser, Content: "hello"})
	ctx.Append(Message{Role: RoleAssistant, Content: "hi there"})

	if ctx.MessageCount != 2 {
		t.Errorf("expected MessageCount 2, got %d", ctx.MessageCount)
	}
	if ctx.MessageCount != len(ctx.Messages) {
		t.Error("MessageCount must equal len(Messages)")
	}
	if ctx.Messages[0].Timestamp.IsZero() {
		t.Error("append must stamp messages")
	}
}

func TestConversationContext_MonotonicTimestamps(t *testing.T) {
	ctx := NewConversationContext("user-1", "session-1")

	later := time.Now().Add(time.Hour)
	ctx.Append(Message{Role: RoleUser, Content: "first", Timestamp: later})
	ctx.Append(Message{Role: RoleAssistant, Content: "second", Timestamp: later.Add(-30 * time.Minute)})

	if ctx.Messages[1].Timestamp.Before(ctx.Messages[0].Timestamp) {
		t.Error("timestamps must be monotonic in append order")
	}
}

func TestConversationContext_Stopped(t *testing.T) {
	ctx := NewConversationContext("user-1", "session-1")
	if ctx.Stopped() {
		t.Error("empty conversation must not be stopped")
	}

	ctx.Append(Message{Role: RoleUser, Content: "tell me about sleep"})
	if ctx.Stopped() {
		t.Error("ordinary message must not stop the conversation")
	}

	ctx.Append(Message{Role: RoleAssistant, Content: "I will STOP now."})
	if !ctx.Stopped() {
		t.Error("a last message containing 'stop' must mark the conversation stopped")
	}
}

func TestConversationContext_RecentTurns(t *testing.T) {
	ctx := NewConversationContext("user-1", "session-1")
	for i := 0; i < 5; i++ {
		ctx.Append(Message{Role: RoleUser, Content: "m"})
	}

	if got := len(ctx.RecentTurns(3)); got != 3 {
		t.Errorf("expected 3 recent turns, got %d", got)
	}
	if got := len(ctx.RecentTurns(10)); got != 5 {
		t.Errorf("expected all 5 turns, got %d", got)
	}
	if ctx.RecentTurns(0) != nil {
		t.Error("expected nil for n=0")
	}
}

func TestIsStopSignal(t *testing.T) {
	stop := []string{"please stop", "STOP", "let's end this", "quit", "exit now", "terminate", "halt everything"}
	for _, q := range stop {
		if !IsStopSignal(q) {
			t.Errorf("expected %q to be a stop signal", q)
		}
	}

	if IsStopSignal("what helps with migraines?") {
		t.Error("ordinary query must not be a stop signal")
	}
}
