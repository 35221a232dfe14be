package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/convo/internal/rpc"
	"github.com/matheus3301/convo/internal/tui/ui"
	"github.com/rivo/tview"
)

// MessageThread displays one conversation newest first above a composer.
type MessageThread struct {
	*tview.Flex
	theme    *ui.Theme
	messages *tview.Table
	composer *tview.InputField
	name     string
	ids      []int64
	onSend   func(text string)
}

// NewMessageThread creates a new message thread view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	messages := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	messages.SetTitle(" Messages ")
	messages.SetTitleColor(theme.TitleColor)

	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	composer.SetBorder(true)
	composer.SetBorderColor(theme.BorderColor)
	composer.SetBackgroundColor(theme.BgColor)
	composer.SetFieldBackgroundColor(theme.BgColor)
	composer.SetFieldTextColor(theme.FgColor)
	composer.SetLabelColor(theme.MenuKeyColor)
	composer.SetTitle(" Compose (i to focus) ")
	composer.SetTitleColor(theme.TitleColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(composer, 3, 0, false).
		AddItem(messages, 0, 1, true)

	mt := &MessageThread{
		Flex:     flex,
		theme:    theme,
		messages: messages,
		composer: composer,
	}

	composer.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter || mt.onSend == nil {
			return
		}
		text := composer.GetText()
		if strings.TrimSpace(text) == "" {
			return
		}
		mt.onSend(text)
		composer.SetText("")
	})

	return mt
}

// Name implements Component.
func (mt *MessageThread) Name() string {
	if mt.name != "" {
		return mt.name
	}
	return "Messages"
}

// FocusTarget implements Component.
func (mt *MessageThread) FocusTarget() tview.Primitive { return mt.messages }

// Hints implements Component.
func (mt *MessageThread) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "i", Description: "Compose"},
		{Key: "x", Description: "Delete msg"},
		{Key: "d", Description: "Details"},
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
	}
}

// SetOnSend sets the callback when a message is submitted.
func (mt *MessageThread) SetOnSend(fn func(text string)) {
	mt.onSend = fn
}

// Update renders a thread snapshot. Messages arrive newest first and are
// shown in that order, so the latest message sits under the composer.
func (mt *MessageThread) Update(th *rpc.ThreadResponse) {
	mt.messages.Clear()
	mt.ids = mt.ids[:0]
	if th == nil {
		return
	}
	if th.Conversation != nil {
		mt.name = th.Conversation.DisplayName
		mt.messages.SetTitle(fmt.Sprintf(" %s (%d) ", tview.Escape(sanitizeForTerminal(mt.name)), len(th.Messages)))
	}

	for row, m := range th.Messages {
		sender := mt.name
		color := mt.theme.FgColor
		if m.FromSelf {
			sender = "You"
			color = mt.theme.SelfColor
		}
		mt.messages.SetCell(row, 0, tview.NewTableCell(" "+m.Time).
			SetTextColor(mt.theme.TimeColor).SetAlign(tview.AlignRight))
		mt.messages.SetCell(row, 1, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(sender))).
			SetTextColor(color).SetAttributes(tcell.AttrBold))
		mt.messages.SetCell(row, 2, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(m.DisplayText))).
			SetTextColor(color).SetExpansion(1))
		mt.ids = append(mt.ids, m.ID)
	}
	mt.messages.ScrollToBeginning()
	if len(mt.ids) > 0 {
		mt.messages.Select(0, 0)
	}
}

// SelectedMessage returns the id of the highlighted message.
func (mt *MessageThread) SelectedMessage() (int64, bool) {
	row, _ := mt.messages.GetSelection()
	if row < 0 || row >= len(mt.ids) {
		return 0, false
	}
	return mt.ids[row], true
}

// Messages returns the message table (for focus management).
func (mt *MessageThread) Messages() *tview.Table {
	return mt.messages
}

// Composer returns the composer input field (for focus management).
func (mt *MessageThread) Composer() *tview.InputField {
	return mt.composer
}
