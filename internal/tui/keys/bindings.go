// Package keys maps key presses to handlers, per page.
package keys

import "github.com/gdamore/tcell/v2"

// Global is the scope consulted after the current page's own bindings.
const Global = ""

// Binding ties a key, or a rune when Key is tcell.KeyRune, to a handler.
type Binding struct {
	Key     tcell.Key
	Rune    rune
	Handler func()
}

// Rune binds a printable key.
func Rune(r rune, fn func()) Binding {
	return Binding{Key: tcell.KeyRune, Rune: r, Handler: fn}
}

// Key binds a special key such as tcell.KeyEnter.
func Key(k tcell.Key, fn func()) Binding {
	return Binding{Key: k, Handler: fn}
}

// Matches reports whether ev triggers the binding.
func (b Binding) Matches(ev *tcell.EventKey) bool {
	if b.Key != tcell.KeyRune {
		return ev.Key() == b.Key
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == b.Rune
}

// Registry holds bindings by scope, in registration order. The first match
// wins.
type Registry struct {
	scopes map[string][]Binding
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{scopes: make(map[string][]Binding)}
}

// Bind appends bindings to a scope.
func (r *Registry) Bind(scope string, bs ...Binding) {
	r.scopes[scope] = append(r.scopes[scope], bs...)
}

// Len returns how many bindings a scope holds.
func (r *Registry) Len(scope string) int {
	return len(r.scopes[scope])
}

// HandleEvent runs the first binding of page, then of Global, that matches
// ev. It reports whether one ran.
func (r *Registry) HandleEvent(page string, ev *tcell.EventKey) bool {
	for _, scope := range []string{page, Global} {
		for _, b := range r.scopes[scope] {
			if b.Matches(ev) {
				b.Handler()
				return true
			}
		}
		if page == Global {
			break
		}
	}
	return false
}
