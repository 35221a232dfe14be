// Package hub is the single writer in front of the conversation list and the
// per-conversation threads. Every mutation and every snapshot goes through
// one mutex, so readers never see a half-applied change, and every change is
// announced on the bus.
package hub

import (
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/matheus3301/convo/internal/bus"
	"github.com/matheus3301/convo/internal/chat"
	"github.com/matheus3301/convo/internal/convlist"
	"github.com/matheus3301/convo/internal/thread"
	"go.uber.org/zap"
)

// DispatchFunc receives messages sent from this device.
type DispatchFunc func(conversationID string, m chat.Message)

// Params configures a Hub.
type Params struct {
	Conversations []chat.Conversation
	// History seeds the thread of a conversation the first time it is opened.
	History  map[string][]chat.Message
	Now      func() time.Time
	Location *time.Location
	Dispatch DispatchFunc
	Bus      *bus.Bus
	Logger   *zap.Logger
}

// Hub owns the engines.
type Hub struct {
	mu       sync.Mutex
	list     *convlist.Engine
	threads  map[string]*thread.Engine
	history  map[string][]chat.Message
	openID   string
	now      func() time.Time
	loc      *time.Location
	dispatch DispatchFunc
	bus      *bus.Bus
	logger   *zap.Logger
}

// New creates a hub from the initial state.
func New(p Params) (*Hub, error) {
	list, err := convlist.New(p.Conversations)
	if err != nil {
		return nil, fmt.Errorf("load conversations: %w", err)
	}
	h := &Hub{
		list:     list,
		threads:  make(map[string]*thread.Engine),
		history:  maps.Clone(p.History),
		now:      p.Now,
		loc:      p.Location,
		dispatch: p.Dispatch,
		bus:      p.Bus,
		logger:   p.Logger,
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.loc == nil {
		h.loc = time.Local
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	return h, nil
}

// ListView returns the ordered, filtered conversation list.
func (h *Hub) ListView(filterText string, tag convlist.Tag) convlist.View {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.list.ListView(filterText, tag)
}

// Snapshot is one consistent read of the conversation list.
type Snapshot struct {
	View        convlist.View
	Tag         convlist.Tag
	TotalUnread int
}

// Snapshot returns the view filtered by tag, the tag itself and the unread
// total, all taken from the same state. An empty tag means the selected one.
func (h *Hub) Snapshot(filterText string, tag convlist.Tag) Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	if tag == "" {
		tag = h.list.SelectedTag()
	}
	return Snapshot{
		View:        h.list.ListView(filterText, tag),
		Tag:         tag,
		TotalUnread: h.list.TotalUnread(),
	}
}

// SelectedTag returns the currently selected tag.
func (h *Hub) SelectedTag() convlist.Tag {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.list.SelectedTag()
}

// Conversation returns one conversation.
func (h *Hub) Conversation(id string) (chat.Conversation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.list.Get(id)
}

// Len returns the number of conversations.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.list.Len()
}

// TotalUnread sums unread counts.
func (h *Hub) TotalUnread() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.list.TotalUnread()
}

// ActionsFor returns the long-press menu for a conversation.
func (h *Hub) ActionsFor(id string) ([]convlist.Intent, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.list.ActionsFor(id)
}

// TogglePin flips the pinned flag of a conversation.
func (h *Hub) TogglePin(id string) (chat.Conversation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, err := h.list.TogglePin(id)
	if err != nil {
		return chat.Conversation{}, err
	}
	kind := bus.KindConversationUnpinned
	if c.Pinned {
		kind = bus.KindConversationPinned
	}
	h.publish(kind, id, c)
	return c, nil
}

// Delete removes a conversation and its thread.
func (h *Hub) Delete(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.deleteLocked(id)
}

func (h *Hub) deleteLocked(id string) error {
	if err := h.list.Delete(id); err != nil {
		return err
	}
	delete(h.threads, id)
	delete(h.history, id)
	if h.openID == id {
		h.openID = ""
	}
	h.logger.Info("conversation deleted", zap.String("conversation_id", id))
	h.publish(bus.KindConversationDeleted, id, nil)
	return nil
}

// MarkRead clears the unread counter of a conversation and returns it.
func (h *Hub) MarkRead(id string) (chat.Conversation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.markReadLocked(id); err != nil {
		return chat.Conversation{}, err
	}
	return h.list.Get(id)
}

func (h *Hub) markReadLocked(id string) error {
	c, err := h.list.Get(id)
	if err != nil {
		return err
	}
	if err := h.list.MarkRead(id); err != nil {
		return err
	}
	if c.UnreadCount > 0 {
		h.publish(bus.KindConversationRead, id, nil)
	}
	return nil
}

// Open makes a conversation the active one: its unread count is cleared and
// messages arriving while it stays open do not count as unread.
func (h *Hub) Open(id string) (chat.Conversation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.threadLocked(id); err != nil {
		return chat.Conversation{}, err
	}
	if err := h.markReadLocked(id); err != nil {
		return chat.Conversation{}, err
	}
	h.openID = id
	return h.list.Get(id)
}

// Close clears the active conversation.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.openID = ""
}

// OpenID returns the active conversation id, or "".
func (h *Hub) OpenID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.openID
}

// Receive records an inbound message. A *chat.OutOfOrderError is returned
// after the message has been applied when its timestamp is older than the
// conversation's last activity.
func (h *Hub) Receive(id, text string, at time.Time) (chat.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, err := h.threadLocked(id)
	if err != nil {
		return chat.Message{}, err
	}
	advisory := h.list.ReceiveMessage(id, text, at)
	if advisory != nil && !chat.IsAdvisory(advisory) {
		return chat.Message{}, advisory
	}
	m := t.Receive(text, at)
	if h.openID == id {
		_ = h.list.MarkRead(id)
	}
	if advisory != nil {
		h.logger.Warn("inbound message older than conversation",
			zap.String("conversation_id", id), zap.Time("occurred_at", at), zap.Error(advisory))
	}
	h.publish(bus.KindMessageReceived, id, m)
	return m, advisory
}

// Send creates a message from this device in a conversation's thread.
func (h *Hub) Send(id, text string) (chat.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, err := h.threadLocked(id)
	if err != nil {
		return chat.Message{}, err
	}
	m, err := t.Send(text)
	if err != nil {
		return chat.Message{}, err
	}
	if err := h.list.RecordOutgoing(id, m.Text, m.Timestamp); err != nil && !chat.IsAdvisory(err) {
		return chat.Message{}, err
	}
	h.publish(bus.KindMessageSent, id, m)
	return m, nil
}

// DeleteMessage removes one message from a conversation's thread.
func (h *Hub) DeleteMessage(id string, msgID int64) error {
	return h.DispatchThread(id, thread.DeleteMessage(msgID))
}

// Thread returns a conversation's messages in the given order.
func (h *Hub) Thread(id string, dir thread.Direction) ([]chat.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, err := h.threadLocked(id)
	if err != nil {
		return nil, err
	}
	return t.DisplayOrder(dir), nil
}

// FormatTimestamp renders a message time in the hub's location.
func (h *Hub) FormatTimestamp(m chat.Message) string {
	return thread.FormatClock(m.Timestamp.In(h.loc))
}

// Dispatch applies a conversation-list intent.
func (h *Hub) Dispatch(in convlist.Intent) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch in.Kind {
	case convlist.IntentDelete:
		return h.deleteLocked(in.ID)
	case convlist.IntentPin, convlist.IntentUnpin:
		changed, err := h.list.SetPinned(in.ID, in.Kind == convlist.IntentPin)
		if err != nil {
			return err
		}
		if changed {
			kind := bus.KindConversationUnpinned
			if in.Kind == convlist.IntentPin {
				kind = bus.KindConversationPinned
			}
			c, _ := h.list.Get(in.ID)
			h.publish(kind, in.ID, c)
		}
		return nil
	case convlist.IntentSelectTag:
		if err := h.list.Dispatch(in); err != nil {
			return err
		}
		h.publish(bus.KindTagSelected, "", h.list.SelectedTag())
		return nil
	default:
		return h.list.Dispatch(in)
	}
}

// DispatchThread applies a thread intent to a conversation's thread.
func (h *Hub) DispatchThread(id string, in thread.Intent) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, err := h.threadLocked(id)
	if err != nil {
		return err
	}
	if err := t.Dispatch(in); err != nil {
		return err
	}
	if in.Kind == thread.IntentDeleteMessage {
		h.publish(bus.KindMessageDeleted, id, in.MessageID)
	}
	return nil
}

// threadLocked returns the thread of an existing conversation, building it
// from the seeded history on first use.
func (h *Hub) threadLocked(id string) (*thread.Engine, error) {
	c, err := h.list.Get(id)
	if err != nil {
		return nil, err
	}
	if t, ok := h.threads[id]; ok {
		return t, nil
	}
	t := thread.New(thread.Options{
		ConversationID: id,
		DisplayName:    c.DisplayName,
		Messages:       h.history[id],
		Now:            h.now,
		Location:       h.loc,
		Dispatch:       h.dispatchFor(id),
	})
	delete(h.history, id)
	h.threads[id] = t
	return t, nil
}

func (h *Hub) dispatchFor(id string) func(chat.Message) {
	if h.dispatch == nil {
		return nil
	}
	return func(m chat.Message) { h.dispatch(id, m) }
}

func (h *Hub) publish(kind, id string, payload any) {
	h.bus.Publish(bus.Event{
		Kind:           kind,
		Timestamp:      h.now(),
		ConversationID: id,
		Payload:        payload,
	})
}

// IsNotFound reports whether err is a missing conversation or message.
func IsNotFound(err error) bool {
	return errors.Is(err, chat.ErrNotFound)
}
