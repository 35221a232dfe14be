package ui

import (
	"slices"

	"github.com/rivo/tview"
)

// Pages keeps a navigation stack on top of tview.Pages. Overlays stay
// stacked above the page that opened them without hiding it.
type Pages struct {
	*tview.Pages
	stack    []entry
	onChange func(stack []string)
}

type entry struct {
	name    string
	overlay bool
}

// NewPages creates an empty stack.
func NewPages() *Pages {
	return &Pages{Pages: tview.NewPages()}
}

// SetOnChange registers fn to receive the stack after every change.
func (p *Pages) SetOnChange(fn func(stack []string)) {
	p.onChange = fn
}

// Push hides everything below and shows name.
func (p *Pages) Push(name string) {
	for _, e := range p.stack {
		p.HidePage(e.name)
	}
	p.push(entry{name: name})
}

// PushOverlay shows name above the current page.
func (p *Pages) PushOverlay(name string) {
	p.push(entry{name: name, overlay: true})
}

func (p *Pages) push(e entry) {
	p.stack = append(p.stack, e)
	p.ShowPage(e.name)
	p.SendToFront(e.name)
	p.notify()
}

// Pop removes the top page and returns its name, or "" on an empty stack.
func (p *Pages) Pop() string {
	if len(p.stack) == 0 {
		return ""
	}
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	p.HidePage(top.name)
	p.reveal()
	p.notify()
	return top.name
}

// PopTo pops until name is on top. It returns the popped names, newest
// first, and pops nothing when name is not on the stack.
func (p *Pages) PopTo(name string) []string {
	i := slices.IndexFunc(p.stack, func(e entry) bool { return e.name == name })
	if i < 0 {
		return nil
	}
	var popped []string
	for j := len(p.stack) - 1; j > i; j-- {
		popped = append(popped, p.stack[j].name)
		p.HidePage(p.stack[j].name)
	}
	p.stack = p.stack[:i+1]
	p.reveal()
	if len(popped) > 0 {
		p.notify()
	}
	return popped
}

// reveal shows the top page and, below an overlay, the page under it.
func (p *Pages) reveal() {
	for i := len(p.stack) - 1; i >= 0; i-- {
		p.ShowPage(p.stack[i].name)
		if !p.stack[i].overlay {
			break
		}
	}
	if n := len(p.stack); n > 0 {
		p.SendToFront(p.stack[n-1].name)
	}
}

// Current returns the top page name.
func (p *Pages) Current() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1].name
}

// Stack returns the page names, bottom first.
func (p *Pages) Stack() []string {
	out := make([]string, len(p.stack))
	for i, e := range p.stack {
		out[i] = e.name
	}
	return out
}

func (p *Pages) Depth() int { return len(p.stack) }

// Reset leaves name as the only page.
func (p *Pages) Reset(name string) {
	for _, e := range p.stack {
		p.HidePage(e.name)
	}
	p.stack = p.stack[:0]
	p.push(entry{name: name})
}

func (p *Pages) notify() {
	if p.onChange != nil {
		p.onChange(p.Stack())
	}
}
