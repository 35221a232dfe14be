package chat

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestGuessCategory(t *testing.T) {
	tests := []struct {
		name string
		want Category
	}{
		{"Group Chat 1", Group},
		{"weekend GROUP", Group},
		{"Alice", Direct},
		{"", Direct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GuessCategory(tt.name); got != tt.want {
				t.Errorf("GuessCategory(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestMessageBefore(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	a := Message{ID: 1, Timestamp: t0}
	b := Message{ID: 2, Timestamp: t0}
	c := Message{ID: 0, Timestamp: t0.Add(time.Second)}

	if !a.Before(b) || b.Before(a) {
		t.Error("equal timestamps must be ordered by id")
	}
	if !b.Before(c) {
		t.Error("older timestamp must sort first regardless of id")
	}
}

func TestOutOfOrderErrorMatches(t *testing.T) {
	var err error = &OutOfOrderError{ConversationID: "1"}
	wrapped := fmt.Errorf("receive: %w", err)

	if !errors.Is(wrapped, ErrOutOfOrder) {
		t.Error("wrapped OutOfOrderError should match ErrOutOfOrder")
	}
	if !IsAdvisory(wrapped) {
		t.Error("IsAdvisory() = false, want true")
	}
	if IsAdvisory(ErrNotFound) {
		t.Error("ErrNotFound must not be an advisory")
	}

	var ooo *OutOfOrderError
	if !errors.As(wrapped, &ooo) || ooo.ConversationID != "1" {
		t.Errorf("errors.As() did not recover the conversation id")
	}
}
