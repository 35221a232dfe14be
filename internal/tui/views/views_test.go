package views

import (
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/convo/internal/rpc"
	"github.com/matheus3301/convo/internal/tui/ui"
)

func sampleList() *rpc.ListConversationsResponse {
	return &rpc.ListConversationsResponse{
		Pinned: []*rpc.Conversation{
			{ID: "g1", DisplayName: "Group Chat 1", Preview: "lunch? 🍕", UnreadCount: 5, Pinned: true, Category: "group"},
		},
		Others: []*rpc.Conversation{
			{ID: "a", DisplayName: "Alice", Preview: "see you 😊", UnreadCount: 2, Category: "direct"},
			{ID: "b", DisplayName: "Bob", Preview: "ok", Category: "direct"},
		},
		Tag: "all",
	}
}

func TestConversationListSections(t *testing.T) {
	cl := NewConversationList(ui.DefaultTheme())
	cl.Update(sampleList())

	// header, PINNED, g1, CHATS, a, b
	want := []string{"", "", "g1", "", "a", "b"}
	if len(cl.rows) != len(want) {
		t.Fatalf("rows = %v, want %v", cl.rows, want)
	}
	for i := range want {
		if cl.rows[i] != want[i] {
			t.Fatalf("rows = %v, want %v", cl.rows, want)
		}
	}
	if got := cl.GetCell(1, 0).Text; !strings.Contains(got, "PINNED") {
		t.Errorf("row 1 = %q, want PINNED header", got)
	}
	if got := cl.GetCell(4, 0).Text; !strings.Contains(got, "(2)") {
		t.Errorf("Alice row = %q, want unread badge", got)
	}
	if got := cl.GetCell(5, 0).Text; strings.Contains(got, "(") {
		t.Errorf("Bob row = %q, want no badge", got)
	}
	if got := cl.GetCell(2, 3).Text; got != "GROUP" {
		t.Errorf("type = %q, want GROUP", got)
	}
	if got := cl.SelectedID(); got != "g1" {
		t.Errorf("SelectedID() = %q, want first conversation", got)
	}
	if !strings.Contains(cl.GetTitle(), "<All>") {
		t.Errorf("title = %q, want selected tag marked", cl.GetTitle())
	}
}

func TestConversationListKeepsSelection(t *testing.T) {
	cl := NewConversationList(ui.DefaultTheme())
	cl.Update(sampleList())
	cl.Reselect("b")

	// Bob moves to the top of Chats after new activity.
	l := sampleList()
	l.Others = []*rpc.Conversation{l.Others[1], l.Others[0]}
	cl.Update(l)
	if got := cl.SelectedID(); got != "b" {
		t.Errorf("SelectedID() = %q, want b", got)
	}

	// Deleted conversations fall back to the first row.
	l.Others = l.Others[1:]
	cl.Update(l)
	if got := cl.SelectedID(); got != "g1" {
		t.Errorf("SelectedID() after delete = %q, want g1", got)
	}
}

func TestIDByIndexSkipsHeaders(t *testing.T) {
	cl := NewConversationList(ui.DefaultTheme())
	cl.Update(sampleList())
	tests := map[int]string{0: "", 1: "g1", 2: "a", 3: "b", 4: ""}
	for n, want := range tests {
		if got := cl.IDByIndex(n); got != want {
			t.Errorf("IDByIndex(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestNextTag(t *testing.T) {
	tests := map[string]string{"all": "direct", "direct": "group", "group": "all", "": "all"}
	for in, want := range tests {
		if got := NextTag(in); got != want {
			t.Errorf("NextTag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-4*time.Hour - 55*time.Minute), "1:05 PM"},
		{now.AddDate(0, 0, -1), "03/09"},
	}
	for _, tt := range tests {
		if got := formatTimestamp(tt.at.UnixMilli(), now); got != tt.want {
			t.Errorf("formatTimestamp(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
	if got := formatTimestamp(0, now); got != "" {
		t.Errorf("formatTimestamp(0) = %q, want empty", got)
	}
}

func TestMessageThreadNewestFirst(t *testing.T) {
	mt := NewMessageThread(ui.DefaultTheme())
	mt.Update(&rpc.ThreadResponse{
		Conversation: &rpc.Conversation{ID: "a", DisplayName: "Alice"},
		Messages: []*rpc.Message{
			{ID: 3, DisplayText: "newest 👋", FromSelf: true, Time: "2:01 PM"},
			{ID: 1, DisplayText: "oldest", Time: "1:00 PM"},
		},
	})
	if id, ok := mt.SelectedMessage(); !ok || id != 3 {
		t.Errorf("SelectedMessage() = %d, %v, want 3", id, ok)
	}
	if got := mt.Messages().GetCell(0, 1).Text; !strings.Contains(got, "You") {
		t.Errorf("sender = %q, want You", got)
	}
	if got := mt.Messages().GetCell(1, 1).Text; !strings.Contains(got, "Alice") {
		t.Errorf("sender = %q, want Alice", got)
	}
	if mt.Name() != "Alice" {
		t.Errorf("Name() = %q", mt.Name())
	}

	mt.Update(nil)
	if _, ok := mt.SelectedMessage(); ok {
		t.Error("empty thread should have no selection")
	}
}

func TestActionMenuConfirmsDelete(t *testing.T) {
	am := NewActionMenu(ui.DefaultTheme())
	var chosen []string
	am.SetOnChoose(func(intent string) { chosen = append(chosen, intent) })

	acts := []rpc.Action{
		{Intent: rpc.IntentPin, Label: "Pin"},
		{Intent: rpc.IntentDelete, Label: "Delete"},
		{Intent: rpc.IntentCancel, Label: "Cancel"},
	}
	am.Show("Alice", acts)
	am.choose(acts[0].Intent)
	if len(chosen) != 1 || chosen[0] != rpc.IntentPin {
		t.Fatalf("chosen = %v", chosen)
	}

	// Delete goes through a confirmation step first.
	am.confirmDelete()
	if len(chosen) != 1 {
		t.Fatalf("delete must wait for confirmation, chosen = %v", chosen)
	}
}

func TestSanitizeForTerminal(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"👍\U0001F3FB", "👍"},
		{"👨‍👩", "👨👩"},
		{"❤️", "❤"},
		{"hi 😊", "hi 😊"},
		{"two\nlines\tand tab", "two lines and tab"},
		{"bell\a", "bell"},
	}
	for _, tt := range tests {
		if got := sanitizeForTerminal(tt.in); got != tt.want {
			t.Errorf("sanitizeForTerminal(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

var (
	_ ui.Component = (*ConversationList)(nil)
	_ ui.Component = (*MessageThread)(nil)
	_ ui.Component = (*ConversationInfo)(nil)
	_ ui.Component = (*HelpView)(nil)
	_ ui.Component = (*ActionMenu)(nil)
)

func TestHelpViewListsCommands(t *testing.T) {
	hv := NewHelpView(ui.DefaultTheme())
	if strings.Contains(hv.GetText(true), "Commands") {
		t.Fatal("no commands section before SetCommands")
	}
	hv.SetCommands([]ui.MenuHint{{Key: "open <name>", Description: "Open conversation by name"}})
	text := hv.GetText(true)
	if !strings.Contains(text, ":open <name>") || strings.Count(text, "Global Keys") != 1 {
		t.Errorf("help text = %q", text)
	}
}
