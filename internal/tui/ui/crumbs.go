package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// Crumbs shows the page stack, the active page last.
type Crumbs struct {
	*tview.TextView
	theme *Theme
}

// NewCrumbs creates a breadcrumb bar.
func NewCrumbs(theme *Theme) *Crumbs {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	return &Crumbs{TextView: tv, theme: theme}
}

// Update renders names as crumbs.
func (c *Crumbs) Update(names []string) {
	c.Clear()
	var b strings.Builder
	for i, name := range names {
		fg, bg, attr := c.theme.CrumbInactiveFg, c.theme.CrumbInactiveBg, ""
		if i == len(names)-1 {
			fg, bg, attr = c.theme.CrumbActiveFg, c.theme.CrumbActiveBg, "b"
		}
		fmt.Fprintf(&b, "[%s:%s:%s] <%s> [-:-:-] ", Hex(fg), Hex(bg), attr, tview.Escape(strings.ToLower(name)))
	}
	_, _ = fmt.Fprint(c, b.String())
}
