package views

import (
	"fmt"

	"github.com/matheus3301/convo/internal/rpc"
	"github.com/matheus3301/convo/internal/tui/ui"
	"github.com/rivo/tview"
)

// ActionMenu is the modal shown on a long press of a conversation. Picking
// Delete asks for confirmation before the intent is returned.
type ActionMenu struct {
	*tview.Modal
	theme    *ui.Theme
	actions  []rpc.Action
	name     string
	onChoose func(intent string)
}

// NewActionMenu creates an empty action menu.
func NewActionMenu(theme *ui.Theme) *ActionMenu {
	modal := tview.NewModal()
	modal.SetBackgroundColor(theme.BgColor)
	modal.SetTextColor(theme.FgColor)
	modal.SetBorderColor(theme.BorderFocusColor)
	modal.SetButtonBackgroundColor(theme.TableCursorBg)
	modal.SetButtonTextColor(theme.TableCursorFg)
	return &ActionMenu{Modal: modal, theme: theme}
}

// Name implements Component.
func (am *ActionMenu) Name() string { return "Actions" }

// FocusTarget implements Component.
func (am *ActionMenu) FocusTarget() tview.Primitive { return am.Modal }

// Hints implements Component.
func (am *ActionMenu) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Choose"},
		{Key: "Esc", Description: "Cancel"},
	}
}

// SetOnChoose sets the callback receiving the chosen intent. Cancel and
// a declined delete are reported as rpc.IntentCancel.
func (am *ActionMenu) SetOnChoose(fn func(intent string)) {
	am.onChoose = fn
}

// Show fills the menu for one conversation.
func (am *ActionMenu) Show(name string, actions []rpc.Action) {
	am.name = name
	am.actions = actions

	labels := make([]string, len(actions))
	for i, a := range actions {
		labels[i] = a.Label
	}
	am.ClearButtons()
	am.SetText(sanitizeForTerminal(name))
	am.AddButtons(labels)
	am.SetFocus(0)
	am.SetDoneFunc(func(index int, _ string) {
		if index < 0 || index >= len(am.actions) {
			am.choose(rpc.IntentCancel)
			return
		}
		intent := am.actions[index].Intent
		if intent == rpc.IntentDelete {
			am.confirmDelete()
			return
		}
		am.choose(intent)
	})
}

func (am *ActionMenu) confirmDelete() {
	am.ClearButtons()
	am.SetText(fmt.Sprintf("Delete %s? This cannot be undone.", sanitizeForTerminal(am.name)))
	am.AddButtons([]string{"Delete", "Cancel"})
	am.SetFocus(1)
	am.SetDoneFunc(func(index int, _ string) {
		if index == 0 {
			am.choose(rpc.IntentDelete)
			return
		}
		am.choose(rpc.IntentCancel)
	})
}

func (am *ActionMenu) choose(intent string) {
	if am.onChoose != nil {
		am.onChoose(intent)
	}
}
