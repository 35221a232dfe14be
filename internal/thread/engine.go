// Package thread maintains the message timeline of a single conversation.
//
// Messages are kept once, ascending by (timestamp, id). Newest-first views
// are derived from that store. An Engine is not safe for concurrent use.
package thread

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matheus3301/convo/internal/chat"
	"github.com/matheus3301/convo/internal/enrich"
)

// Direction selects the order returned by DisplayOrder.
type Direction int

const (
	OldestFirst Direction = iota
	NewestFirst
)

// Options configures a thread engine.
type Options struct {
	ConversationID string
	DisplayName    string

	// Messages is the initial history in any order.
	Messages []chat.Message

	// Now defaults to time.Now.
	Now func() time.Time

	// Location is used by FormatTimestamp. Defaults to time.Local.
	Location *time.Location

	// Dispatch, when set, receives every message created by Send after it
	// has been inserted. It is the hand-off point to an outbound transport.
	Dispatch func(chat.Message)
}

// Engine owns one conversation's messages.
type Engine struct {
	convID   string
	name     string
	msgs     []chat.Message
	nextID   int64
	now      func() time.Time
	loc      *time.Location
	dispatch func(chat.Message)
}

// New creates a thread engine.
func New(opts Options) *Engine {
	e := &Engine{
		convID:   opts.ConversationID,
		name:     opts.DisplayName,
		msgs:     slices.Clone(opts.Messages),
		now:      opts.Now,
		loc:      opts.Location,
		dispatch: opts.Dispatch,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	slices.SortStableFunc(e.msgs, compareMessages)
	for _, m := range e.msgs {
		e.nextID = max(e.nextID, m.ID)
	}
	return e
}

func compareMessages(a, b chat.Message) int {
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// ConversationID returns the id of the conversation this thread belongs to.
func (e *Engine) ConversationID() string { return e.convID }

// DisplayName returns the conversation name passed in at construction.
func (e *Engine) DisplayName() string { return e.name }

// Len returns the number of messages.
func (e *Engine) Len() int { return len(e.msgs) }

// Last returns the newest message.
func (e *Engine) Last() (chat.Message, bool) {
	if len(e.msgs) == 0 {
		return chat.Message{}, false
	}
	return e.msgs[len(e.msgs)-1], true
}

// Send creates a self-authored message and appends it as the newest entry.
// Blank text is rejected with chat.ErrEmptyInput and nothing is created.
func (e *Engine) Send(text string) (chat.Message, error) {
	if strings.TrimSpace(text) == "" {
		return chat.Message{}, chat.ErrEmptyInput
	}

	ts := e.now()
	// A clock that stepped backwards must not reorder the newest message.
	if last, ok := e.Last(); ok && ts.Before(last.Timestamp) {
		ts = last.Timestamp
	}

	e.nextID++
	m := chat.Message{
		ID:        e.nextID,
		Text:      text,
		FromSelf:  true,
		Timestamp: ts,
		Status:    chat.StatusSent,
	}
	e.msgs = append(e.msgs, m)

	if e.dispatch != nil {
		e.dispatch(m)
	}
	return m, nil
}

// Receive inserts a message authored by the peer at its ordered position.
func (e *Engine) Receive(text string, at time.Time) chat.Message {
	e.nextID++
	m := chat.Message{
		ID:        e.nextID,
		Text:      text,
		Timestamp: at,
		Status:    chat.StatusSent,
	}
	i, _ := slices.BinarySearchFunc(e.msgs, m, compareMessages)
	e.msgs = slices.Insert(e.msgs, i, m)
	return m
}

// Delete removes a message.
func (e *Engine) Delete(id int64) error {
	i := slices.IndexFunc(e.msgs, func(m chat.Message) bool { return m.ID == id })
	if i < 0 {
		return fmt.Errorf("message %d in conversation %q: %w", id, e.convID, chat.ErrNotFound)
	}
	e.msgs = slices.Delete(e.msgs, i, i+1)
	return nil
}

// DisplayOrder returns a copy of the timeline in the requested direction.
func (e *Engine) DisplayOrder(dir Direction) []chat.Message {
	out := slices.Clone(e.msgs)
	if dir == NewestFirst {
		slices.Reverse(out)
	}
	return out
}

// FormatTimestamp renders the message time as a 12-hour clock, e.g. "1:05 PM".
func (e *Engine) FormatTimestamp(m chat.Message) string {
	return FormatClock(m.Timestamp.In(e.loc))
}

// FormatClock renders t as h:mm followed by AM or PM. Hour 0 is shown as 12.
func FormatClock(t time.Time) string {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	suffix := "AM"
	if t.Hour() >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minute(), suffix)
}

// DisplayText returns the display-ready text of a message.
func DisplayText(m chat.Message) string {
	return enrich.Enrich(m.Text)
}
