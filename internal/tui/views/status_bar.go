package views

import (
	"fmt"
	"time"

	"github.com/matheus3301/convo/internal/tui/ui"
	"github.com/rivo/tview"
)

// StatusBar displays the session, its state and the unread total.
type StatusBar struct {
	*tview.TextView
	theme   *ui.Theme
	session string
	status  string
	unread  int
	pending int
	now     func() time.Time
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *ui.Theme) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &StatusBar{TextView: tv, theme: theme, now: time.Now}
}

// SetSession updates the session name display.
func (sb *StatusBar) SetSession(name string) {
	sb.session = name
	sb.render()
}

// SetStatus updates the session state, unread total and outbox backlog.
func (sb *StatusBar) SetStatus(status string, unread, pending int) {
	sb.status = status
	sb.unread = unread
	sb.pending = pending
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	status := sb.status
	if status == "" {
		status = "CONNECTING"
	}
	color := "green"
	if status != "READY" {
		color = "yellow"
	}

	line := fmt.Sprintf(" [::b]%s[-:-:-] | [%s]%s[-] | unread [%s]%d[-]",
		sb.session, color, status, ui.Hex(sb.theme.CounterColor), sb.unread)
	if sb.pending > 0 {
		line += fmt.Sprintf(" | outbox %d", sb.pending)
	}
	line += " | " + sb.now().Format("3:04 PM")

	_, _ = fmt.Fprint(sb, line)
}
