// Package status tracks the lifecycle of a session daemon.
package status

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/matheus3301/convo/internal/bus"
)

// State is a daemon runtime state.
type State string

const (
	Booting  State = "BOOTING"
	Seeding  State = "SEEDING"
	Ready    State = "READY"
	Degraded State = "DEGRADED"
	Stopping State = "STOPPING"
	Error    State = "ERROR"
)

var validTransitions = map[State][]State{
	Booting:  {Seeding, Stopping, Error},
	Seeding:  {Ready, Stopping, Error},
	Ready:    {Degraded, Stopping, Error},
	Degraded: {Ready, Stopping, Error},
	Stopping: {},
	Error:    {Booting, Stopping},
}

// Machine tracks and enforces daemon runtime state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	reason  string
	since   time.Time
	bus     *bus.Bus
	now     func() time.Time
}

// NewMachine creates a machine in the Booting state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Booting,
		since:   time.Now(),
		bus:     b,
		now:     time.Now,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Snapshot returns the current state, the reason given when entering it and
// when that happened.
func (m *Machine) Snapshot() (State, string, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.reason, m.since
}

// Transition moves to a new state. Moving to the current state is a no-op.
func (m *Machine) Transition(to State) error {
	return m.TransitionWithReason(to, "")
}

// TransitionWithReason is Transition with a human-readable cause, shown by
// GetStatus.
func (m *Machine) TransitionWithReason(to State, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if to == m.current {
		m.reason = reason
		return nil
	}
	if !slices.Contains(validTransitions[m.current], to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	m.reason = reason
	m.since = m.now()
	m.bus.Publish(bus.Event{
		Kind:      bus.KindSessionStatusChanged,
		Timestamp: m.since,
		Payload:   StatusChange{From: from, To: to, Reason: reason},
	})
	return nil
}

// StatusChange is the payload of session.status_changed events.
type StatusChange struct {
	From   State
	To     State
	Reason string
}
