package ui

import (
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// PromptMode selects what a submitted prompt means.
type PromptMode int

const (
	PromptCommand PromptMode = iota
	PromptFilter
)

// historySize bounds the remembered entries per mode.
const historySize = 20

// Prompt is the ":" command and "/" filter bar. Up and Down walk the
// history of the active mode.
type Prompt struct {
	*tview.InputField
	theme    *Theme
	mode     PromptMode
	history  map[PromptMode][]string
	cursor   int
	onSubmit func(mode PromptMode, text string)
	onCancel func()
}

// NewPrompt creates a hidden prompt bar.
func NewPrompt(theme *Theme) *Prompt {
	input := tview.NewInputField()
	input.SetBorder(true)
	input.SetBorderColor(theme.PromptBorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)

	p := &Prompt{InputField: input, theme: theme, history: make(map[PromptMode][]string)}
	input.SetDoneFunc(p.done)
	input.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch ev.Key() {
		case tcell.KeyUp:
			p.recall(-1)
			return nil
		case tcell.KeyDown:
			p.recall(1)
			return nil
		}
		return ev
	})
	return p
}

func (p *Prompt) done(key tcell.Key) {
	text := p.GetText()
	p.SetText("")
	switch key {
	case tcell.KeyEnter:
		if text == "" {
			if p.onCancel != nil {
				p.onCancel()
			}
			return
		}
		p.remember(text)
		if p.onSubmit != nil {
			p.onSubmit(p.mode, text)
		}
	case tcell.KeyEscape:
		if p.onCancel != nil {
			p.onCancel()
		}
	}
}

func (p *Prompt) remember(text string) {
	h := slices.DeleteFunc(p.history[p.mode], func(s string) bool { return s == text })
	h = append(h, text)
	if len(h) > historySize {
		h = h[len(h)-historySize:]
	}
	p.history[p.mode] = h
}

// recall moves through the history; stepping past the newest entry clears
// the field.
func (p *Prompt) recall(step int) {
	h := p.history[p.mode]
	if len(h) == 0 {
		return
	}
	p.cursor = min(max(p.cursor+step, 0), len(h))
	if p.cursor == len(h) {
		p.SetText("")
		return
	}
	p.SetText(h[p.cursor])
}

// History returns the remembered entries of a mode, oldest first.
func (p *Prompt) History(mode PromptMode) []string {
	return slices.Clone(p.history[mode])
}

func (p *Prompt) SetOnSubmit(fn func(mode PromptMode, text string)) { p.onSubmit = fn }
func (p *Prompt) SetOnCancel(fn func())                              { p.onCancel = fn }

// SetCompleter offers completions in command mode.
func (p *Prompt) SetCompleter(fn func(prefix string) []string) {
	p.SetAutocompleteFunc(func(text string) []string {
		if p.mode != PromptCommand {
			return nil
		}
		return fn(text)
	})
}

// Activate resets the field for a new entry in mode.
func (p *Prompt) Activate(mode PromptMode) {
	p.mode = mode
	p.cursor = len(p.history[mode])
	p.SetText("")
	if mode == PromptFilter {
		p.SetLabel("/")
		p.SetTitle(" Filter ")
		p.SetPlaceholder("name or last message")
		return
	}
	p.SetLabel(":")
	p.SetTitle(" Command ")
	p.SetPlaceholder("open, pin, tag, help...")
}

// Mode returns the active mode.
func (p *Prompt) Mode() PromptMode {
	return p.mode
}
