package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// SessionData holds session information for display.
type SessionData struct {
	Session       string
	Status        string
	Reason        string
	Conversations int
	Unread        int
	Pending       int
	Uptime        time.Duration
}

// SessionInfo displays session metadata in the header.
type SessionInfo struct {
	*tview.TextView
	theme *Theme
}

// NewSessionInfo creates a new session info panel.
func NewSessionInfo(theme *Theme) *SessionInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &SessionInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the session info.
func (si *SessionInfo) Update(data *SessionData) {
	si.Clear()
	if data == nil {
		return
	}

	fgColor := Hex(si.theme.FgColor)
	counterColor := Hex(si.theme.CounterColor)

	status := data.Status
	if data.Reason != "" {
		status += " (" + data.Reason + ")"
	}

	uptime := formatDuration(data.Uptime)

	text := fmt.Sprintf(
		"[%s::b]Session:[-:-:-] [%s]%s[-]\n"+
			"[%s::b]Status:[-:-:-]  [%s]%s[-]\n"+
			"[%s::b]Chats:[-:-:-]   [%s]%d[-]\n"+
			"[%s::b]Unread:[-:-:-]  [%s]%d[-]\n"+
			"[%s::b]Outbox:[-:-:-]  [%s]%d[-]\n"+
			"[%s::b]Uptime:[-:-:-]  [%s]%s[-]",
		fgColor, counterColor, data.Session,
		fgColor, counterColor, tview.Escape(status),
		fgColor, counterColor, data.Conversations,
		fgColor, counterColor, data.Unread,
		fgColor, counterColor, data.Pending,
		fgColor, counterColor, uptime,
	)

	_, _ = fmt.Fprint(si, text)
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
