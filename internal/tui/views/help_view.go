package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/convo/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme    *ui.Theme
	commands []ui.MenuHint
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// FocusTarget implements Component.
func (hv *HelpView) FocusTarget() tview.Primitive { return hv.TextView }

// SetCommands lists the ":" commands below the key sections.
func (hv *HelpView) SetCommands(commands []ui.MenuHint) {
	hv.commands = commands
	hv.render()
}

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (hv *HelpView) render() {
	hv.Clear()
	kc := ui.Hex(hv.theme.MenuKeyColor)

	sections := []struct {
		title string
		keys  [][2]string
	}{
		{"Global Keys", [][2]string{
			{":", "Command mode"}, {"Esc", "Cancel / Go back"},
			{"/", "Filter mode"}, {"?", "Help"},
			{"q", "Quit / Back"}, {"Ctrl-C", "Quit immediately"},
		}},
		{"Conversation List", [][2]string{
			{"Enter", "Open conversation"}, {"a", "Actions (pin, delete)"},
			{"p", "Pin / unpin"}, {"Tab", "Next tag (All, Direct, Group)"},
			{"1-9", "Jump to Nth conversation"}, {"0", "Clear filter"},
			{"d", "Conversation details"}, {"j/k", "Move down / up"},
		}},
		{"Message Thread", [][2]string{
			{"i", "Focus composer"}, {"Enter", "Send message (in composer)"},
			{"x", "Delete selected message"}, {"d", "Conversation details"},
			{"Esc", "Exit composer / back to list"},
		}},
	}
	if len(hv.commands) > 0 {
		cmds := make([][2]string, len(hv.commands))
		for i, c := range hv.commands {
			cmds[i] = [2]string{":" + c.Key, c.Description}
		}
		sections = append(sections, struct {
			title string
			keys  [][2]string
		}{"Commands (: mode)", cmds})
	}

	var b strings.Builder
	for _, s := range sections {
		fmt.Fprintf(&b, "\n  [::b]%s[-:-:-]\n\n", s.title)
		for _, k := range s.keys {
			fmt.Fprintf(&b, "  [%s]%-24s[-:-:-] %s\n", kc, tview.Escape(k[0]), k[1])
		}
	}
	_, _ = fmt.Fprint(hv, b.String())
}
