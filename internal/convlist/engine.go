// Package convlist owns the set of conversations and derives the ordered,
// filtered list shown to the user.
//
// The engine is not safe for concurrent use. Callers serialize mutations
// (see internal/hub) so that readers always observe a complete update.
package convlist

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matheus3301/convo/internal/chat"
	"github.com/matheus3301/convo/internal/enrich"
)

// View is the derived conversation list. All holds every matching
// conversation in display order; Pinned and Others split it into the two
// sections the list is rendered in.
type View struct {
	All    []chat.Conversation
	Pinned []chat.Conversation
	Others []chat.Conversation
}

// Engine holds the conversation set keyed by id.
type Engine struct {
	convs    map[string]*chat.Conversation
	selected Tag
}

// New creates an engine seeded with the given conversations.
func New(initial []chat.Conversation) (*Engine, error) {
	e := &Engine{
		convs:    make(map[string]*chat.Conversation, len(initial)),
		selected: TagAll,
	}
	for _, c := range initial {
		if err := e.add(c); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// add inserts a seeded conversation. The set only shrinks after New, so an
// id that was deleted can never come back.
func (e *Engine) add(c chat.Conversation) error {
	if c.ID == "" {
		return fmt.Errorf("conversation id is empty")
	}
	if _, ok := e.convs[c.ID]; ok {
		return fmt.Errorf("duplicate conversation id %q", c.ID)
	}
	if c.UnreadCount < 0 {
		return fmt.Errorf("conversation %q: negative unread count %d", c.ID, c.UnreadCount)
	}
	if !c.Category.Valid() {
		c.Category = chat.Direct
	}
	e.convs[c.ID] = &c
	return nil
}

// ListView filters by display name and tag, then orders pinned
// conversations first and the rest by recency.
func (e *Engine) ListView(filterText string, tag Tag) View {
	needle := strings.ToLower(filterText)

	var all []chat.Conversation
	for _, c := range e.convs {
		if needle != "" && !strings.Contains(strings.ToLower(c.DisplayName), needle) {
			continue
		}
		if !tag.Matches(c.Category) {
			continue
		}
		all = append(all, *c)
	}
	slices.SortFunc(all, compareConversations)

	v := View{All: all}
	for _, c := range all {
		if c.Pinned {
			v.Pinned = append(v.Pinned, c)
		} else {
			v.Others = append(v.Others, c)
		}
	}
	return v
}

func compareConversations(a, b chat.Conversation) int {
	if a.Pinned != b.Pinned {
		if a.Pinned {
			return -1
		}
		return 1
	}
	if c := b.LastUpdatedAt.Compare(a.LastUpdatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Get returns a copy of the conversation with the given id.
func (e *Engine) Get(id string) (chat.Conversation, error) {
	c, err := e.lookup(id)
	if err != nil {
		return chat.Conversation{}, err
	}
	return *c, nil
}

// Len returns the number of conversations.
func (e *Engine) Len() int {
	return len(e.convs)
}

// TogglePin flips the pinned flag and returns the updated conversation.
func (e *Engine) TogglePin(id string) (chat.Conversation, error) {
	c, err := e.lookup(id)
	if err != nil {
		return chat.Conversation{}, err
	}
	c.Pinned = !c.Pinned
	return *c, nil
}

// SetPinned sets the pinned flag. It reports whether the flag changed.
func (e *Engine) SetPinned(id string, pinned bool) (bool, error) {
	c, err := e.lookup(id)
	if err != nil {
		return false, err
	}
	changed := c.Pinned != pinned
	c.Pinned = pinned
	return changed, nil
}

// Delete removes the conversation permanently.
func (e *Engine) Delete(id string) error {
	if _, err := e.lookup(id); err != nil {
		return err
	}
	delete(e.convs, id)
	return nil
}

// MarkRead clears the unread counter.
func (e *Engine) MarkRead(id string) error {
	c, err := e.lookup(id)
	if err != nil {
		return err
	}
	c.UnreadCount = 0
	return nil
}

// ReceiveMessage records an inbound message. Preview and unread count are
// always updated. LastUpdatedAt never moves backwards: an older timestamp is
// ignored and reported with a *chat.OutOfOrderError after the update.
func (e *Engine) ReceiveMessage(id, previewText string, occurredAt time.Time) error {
	c, err := e.lookup(id)
	if err != nil {
		return err
	}
	c.LastMessagePreview = previewText
	c.UnreadCount++
	return e.bump(c, occurredAt)
}

// RecordOutgoing records a message sent from this device. It behaves like
// ReceiveMessage except that the unread count is untouched.
func (e *Engine) RecordOutgoing(id, previewText string, occurredAt time.Time) error {
	c, err := e.lookup(id)
	if err != nil {
		return err
	}
	c.LastMessagePreview = previewText
	return e.bump(c, occurredAt)
}

func (e *Engine) bump(c *chat.Conversation, at time.Time) error {
	if at.Before(c.LastUpdatedAt) {
		return &chat.OutOfOrderError{ConversationID: c.ID, Current: c.LastUpdatedAt, Got: at}
	}
	c.LastUpdatedAt = at
	return nil
}

// TotalUnread sums unread counts across all conversations.
func (e *Engine) TotalUnread() int {
	total := 0
	for _, c := range e.convs {
		total += c.UnreadCount
	}
	return total
}

// SelectedTag returns the tag last chosen with a SelectTag intent.
func (e *Engine) SelectedTag() Tag {
	return e.selected
}

// PreviewText returns the display-ready preview of a conversation.
func PreviewText(c chat.Conversation) string {
	return enrich.Enrich(c.LastMessagePreview)
}

func (e *Engine) lookup(id string) (*chat.Conversation, error) {
	c, ok := e.convs[id]
	if !ok {
		return nil, fmt.Errorf("conversation %q: %w", id, chat.ErrNotFound)
	}
	return c, nil
}
