package tui

import (
	"slices"
	"strings"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"q", Command{Name: "quit"}},
		{"exit", Command{Name: "quit"}},
		{"  OPEN  Alice  ", Command{Name: "open", Args: "Alice"}},
		{"chat Group Chat 1", Command{Name: "open", Args: "Group Chat 1"}},
		{"tag group", Command{Name: "tag", Args: "group"}},
		{"del", Command{Name: "delete"}},
		{"frobnicate now", Command{Name: "frobnicate", Args: "now"}},
		{"", Command{}},
	}
	for _, tt := range tests {
		if got := ParseCommand(tt.input); got != tt.want {
			t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestCompleteCommand(t *testing.T) {
	tests := []struct {
		prefix string
		want   []string
	}{
		{"", nil},
		{"p", []string{"pin"}},
		{"UN", []string{"unpin"}},
		{"open Al", nil},
		{"zz", nil},
	}
	for _, tt := range tests {
		if got := CompleteCommand(tt.prefix); !slices.Equal(got, tt.want) {
			t.Errorf("CompleteCommand(%q) = %v, want %v", tt.prefix, got, tt.want)
		}
	}
}

func TestCommandHintsMentionAliases(t *testing.T) {
	hints := CommandHints()
	if len(hints) != len(commandTable) {
		t.Fatalf("len = %d, want %d", len(hints), len(commandTable))
	}
	for _, h := range hints {
		if h.Key == "quit" && !strings.Contains(h.Description, "q, exit") {
			t.Errorf("quit hint = %q, want aliases listed", h.Description)
		}
	}
}
