package views

import (
	"fmt"
	"time"

	"github.com/matheus3301/convo/internal/rpc"
	"github.com/matheus3301/convo/internal/tui/ui"
	"github.com/rivo/tview"
)

// ConversationInfo displays detailed information about a conversation.
type ConversationInfo struct {
	*tview.TextView
	theme *ui.Theme
}

// NewConversationInfo creates a new conversation info view.
func NewConversationInfo(theme *ui.Theme) *ConversationInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Conversation Details ")
	tv.SetTitleColor(theme.TitleColor)

	return &ConversationInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (ci *ConversationInfo) Name() string { return "Details" }

// FocusTarget implements Component.
func (ci *ConversationInfo) FocusTarget() tview.Primitive { return ci.TextView }

// Hints implements Component.
func (ci *ConversationInfo) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
	}
}

// Update renders conversation details.
func (ci *ConversationInfo) Update(c *rpc.Conversation) {
	ci.Clear()
	if c == nil {
		return
	}

	fg := ui.Hex(ci.theme.FgColor)
	ct := ui.Hex(ci.theme.CounterColor)

	kind := "Direct Message"
	if c.Category == "group" {
		kind = "Group"
	}
	pinned := "no"
	if c.Pinned {
		pinned = "yes"
	}
	lastActive := "-"
	if c.LastUpdatedUnixMs != 0 {
		lastActive = time.UnixMilli(c.LastUpdatedUnixMs).Format("Jan 2 3:04 PM")
	}
	name := tview.Escape(sanitizeForTerminal(c.DisplayName))

	text := fmt.Sprintf(
		"\n [%s::b]Name:[-:-:-]         [%s]%s[-]\n"+
			" [%s::b]ID:[-:-:-]           [%s]%s[-]\n"+
			" [%s::b]Type:[-:-:-]         [%s]%s[-]\n"+
			" [%s::b]Pinned:[-:-:-]       [%s]%s[-]\n"+
			" [%s::b]Unread:[-:-:-]       [%s]%d[-]\n"+
			" [%s::b]Last Active:[-:-:-]  [%s]%s[-]\n"+
			" [%s::b]Last Message:[-:-:-] [%s]%s[-]",
		fg, ct, name,
		fg, ct, c.ID,
		fg, ct, kind,
		fg, ct, pinned,
		fg, ct, c.UnreadCount,
		fg, ct, lastActive,
		fg, ct, tview.Escape(sanitizeForTerminal(c.Preview)),
	)

	_, _ = fmt.Fprint(ci, text)
	ci.SetTitle(fmt.Sprintf(" %s Details ", name))
}
