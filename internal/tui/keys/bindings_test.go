package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestBindingMatches(t *testing.T) {
	tests := []struct {
		name    string
		binding Binding
		event   *tcell.EventKey
		want    bool
	}{
		{"rune", Rune('p', nil), tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone), true},
		{"other rune", Rune('p', nil), tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), false},
		{"special key", Key(tcell.KeyTab, nil), tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), true},
		{"rune vs special", Rune('p', nil), tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.binding.Matches(tt.event); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHandleEventPrefersPageBindings(t *testing.T) {
	r := NewRegistry()
	var hit string
	r.Bind(Global, Rune('d', func() { hit = "global" }))
	r.Bind("thread", Rune('d', func() { hit = "thread" }))

	ev := tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone)
	if !r.HandleEvent("thread", ev) || hit != "thread" {
		t.Errorf("thread page: hit = %q, want thread", hit)
	}
	if !r.HandleEvent("conversations", ev) || hit != "global" {
		t.Errorf("conversations page: hit = %q, want global", hit)
	}
	if r.HandleEvent("thread", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)) {
		t.Error("unbound key should not be handled")
	}
}

func TestFirstBindingWins(t *testing.T) {
	r := NewRegistry()
	var hits []int
	r.Bind("list",
		Key(tcell.KeyEnter, func() { hits = append(hits, 1) }),
		Key(tcell.KeyEnter, func() { hits = append(hits, 2) }),
	)
	for range 3 {
		r.HandleEvent("list", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	}
	if len(hits) != 3 || hits[0] != 1 || hits[2] != 1 {
		t.Errorf("hits = %v, want [1 1 1]", hits)
	}
	if r.Len("list") != 2 || r.Len(Global) != 0 {
		t.Errorf("Len() = %d/%d", r.Len("list"), r.Len(Global))
	}
}
