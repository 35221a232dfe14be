package ui

import "github.com/rivo/tview"

// MenuHint describes a keyboard shortcut for display in the menu.
type MenuHint struct {
	Key         string
	Description string
	// Numeric hints are drawn in NumericKeyColor.
	Numeric bool
}

// Component is a page the app can push on its stack.
type Component interface {
	tview.Primitive
	Name() string
	Hints() []MenuHint
	// FocusTarget returns the primitive that takes focus when the page is on top.
	FocusTarget() tview.Primitive
}
