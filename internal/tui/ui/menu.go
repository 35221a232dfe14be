package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// menuRows is how many hints fit in one column of the header.
const menuRows = 6

// Menu lays out the key hints of the active page in columns.
type Menu struct {
	*tview.TextView
	theme *Theme
}

// NewMenu creates an empty hint menu.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 2, 0)
	return &Menu{TextView: tv, theme: theme}
}

// Update renders hints column by column.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()
	_, _ = fmt.Fprint(m, m.layout(hints))
}

func (m *Menu) layout(hints []MenuHint) string {
	rows := make([]strings.Builder, min(len(hints), menuRows))
	for i, h := range hints {
		kc := m.theme.MenuKeyColor
		if h.Numeric {
			kc = m.theme.NumericKeyColor
		}
		cell := fmt.Sprintf("[%s::b]%-8s[-:-:-]%-14s", Hex(kc), "<"+h.Key+">", h.Description)
		rows[i%menuRows].WriteString(cell)
	}
	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = strings.TrimRight(rows[i].String(), " ")
	}
	return strings.Join(lines, "\n")
}
