package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/convo/internal/rpc"
	"github.com/matheus3301/convo/internal/tui/ui"
	"github.com/rivo/tview"
)

// Tags is the order the tag bar shows and cycles through.
var Tags = []string{"all", "direct", "group"}

// ConversationList is the main conversation table with Pinned and Chats
// sections.
type ConversationList struct {
	*tview.Table
	theme  *ui.Theme
	list   *rpc.ListConversationsResponse
	filter string
	// rows maps table rows to conversation ids; section headers map to "".
	rows []string
	now  func() time.Time
}

// NewConversationList creates a new conversation list table.
func NewConversationList(theme *ui.Theme) *ConversationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(" Conversations ")
	table.SetTitleColor(theme.TitleColor)

	return &ConversationList{
		Table: table,
		theme: theme,
		now:   time.Now,
	}
}

// Name implements Component.
func (cl *ConversationList) Name() string { return "Conversations" }

// FocusTarget implements Component.
func (cl *ConversationList) FocusTarget() tview.Primitive { return cl.Table }

// Hints implements Component.
func (cl *ConversationList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: "a", Description: "Actions"},
		{Key: "p", Description: "Pin/Unpin"},
		{Key: "Tab", Description: "Next tag"},
		{Key: "/", Description: "Filter"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
		{Key: "q", Description: "Quit"},
		{Key: "1-9", Description: "Jump", Numeric: true},
	}
}

// Update refreshes the table with a new list snapshot.
func (cl *ConversationList) Update(list *rpc.ListConversationsResponse) {
	selected := cl.SelectedID()
	cl.list = list
	cl.render()
	cl.Reselect(selected)
}

// SetFilter records the filter shown in the title.
func (cl *ConversationList) SetFilter(filter string) {
	cl.filter = filter
	cl.render()
}

func (cl *ConversationList) render() {
	cl.Clear()
	cl.rows = cl.rows[:0]

	headers := []struct {
		text string
		exp  int
	}{
		{" NAME", 1},
		{" LAST MESSAGE", 2},
		{" TIME", 0},
		{" TYPE", 0},
	}
	for col, h := range headers {
		cell := tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg).
			SetBackgroundColor(cl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp)
		cl.SetCell(0, col, cell)
	}
	cl.rows = append(cl.rows, "")

	if cl.list == nil {
		return
	}
	cl.section("PINNED", cl.list.Pinned, cl.theme.PinnedColor)
	cl.section("CHATS", cl.list.Others, cl.theme.FgColor)

	total := len(cl.list.Pinned) + len(cl.list.Others)
	title := fmt.Sprintf(" Conversations (%d) %s ", total, tagBar(cl.list.Tag))
	if cl.filter != "" {
		title = fmt.Sprintf(" Conversations (%d) %s filter: %s ", total, tagBar(cl.list.Tag), cl.filter)
	}
	cl.SetTitle(title)
}

func (cl *ConversationList) section(title string, convs []*rpc.Conversation, nameColor tcell.Color) {
	if len(convs) == 0 {
		return
	}
	row := len(cl.rows)
	cl.SetCell(row, 0, tview.NewTableCell(" "+title).
		SetSelectable(false).
		SetTextColor(cl.theme.SectionColor).
		SetAttributes(tcell.AttrBold))
	cl.rows = append(cl.rows, "")

	for _, c := range convs {
		row = len(cl.rows)
		name := c.DisplayName
		if name == "" {
			name = c.ID
		}
		nameCell := tview.NewTableCell(" " + tview.Escape(sanitizeForTerminal(name))).
			SetExpansion(1).SetTextColor(nameColor)
		if c.UnreadCount > 0 {
			nameCell.SetText(fmt.Sprintf(" %s [%s::b](%d)[-:-:-]",
				tview.Escape(sanitizeForTerminal(name)), ui.Hex(cl.theme.UnreadColor), c.UnreadCount))
		}

		typ := "DM"
		if c.Category == "group" {
			typ = "GROUP"
		}

		cl.SetCell(row, 0, nameCell)
		cl.SetCell(row, 1, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(c.Preview))).SetExpansion(2).SetTextColor(cl.theme.FgColor))
		cl.SetCell(row, 2, tview.NewTableCell(formatTimestamp(c.LastUpdatedUnixMs, cl.now())).SetTextColor(cl.theme.TimeColor).SetAlign(tview.AlignRight))
		cl.SetCell(row, 3, tview.NewTableCell(typ).SetTextColor(cl.theme.FgColor).SetAlign(tview.AlignRight))
		cl.rows = append(cl.rows, c.ID)
	}
}

// SelectedID returns the id of the selected conversation, or "".
func (cl *ConversationList) SelectedID() string {
	row, _ := cl.GetSelection()
	if row < 0 || row >= len(cl.rows) {
		return ""
	}
	return cl.rows[row]
}

// Reselect moves the cursor to id, or to the first conversation when id is
// no longer listed.
func (cl *ConversationList) Reselect(id string) {
	first := -1
	for row, rid := range cl.rows {
		if rid == "" {
			continue
		}
		if first < 0 {
			first = row
		}
		if rid == id {
			cl.Select(row, 0)
			return
		}
	}
	if first >= 0 {
		cl.Select(first, 0)
	}
}

// IDByIndex returns the id of the Nth listed conversation (1-based).
func (cl *ConversationList) IDByIndex(n int) string {
	if n < 1 {
		return ""
	}
	seen := 0
	for _, id := range cl.rows {
		if id == "" {
			continue
		}
		seen++
		if seen == n {
			return id
		}
	}
	return ""
}

// NextTag returns the tag after current in the tag bar, wrapping around.
func NextTag(current string) string {
	for i, t := range Tags {
		if t == current {
			return Tags[(i+1)%len(Tags)]
		}
	}
	return Tags[0]
}

func tagBar(selected string) string {
	parts := make([]string, len(Tags))
	for i, t := range Tags {
		label := strings.ToUpper(t[:1]) + t[1:]
		if t == selected || (selected == "" && t == "all") {
			label = "<" + label + ">"
		}
		parts[i] = label
	}
	return strings.Join(parts, " ")
}

// formatTimestamp renders today's times as a 12-hour clock and older ones as
// a date.
func formatTimestamp(ms int64, now time.Time) string {
	if ms == 0 {
		return ""
	}
	t := time.UnixMilli(ms).In(now.Location())
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("3:04 PM")
	}
	return t.Format("01/02")
}
