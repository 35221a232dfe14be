// Package chat holds the data model shared by the conversation list and
// thread engines.
package chat

import (
	"strings"
	"time"
)

// Category tags a conversation as a one-to-one chat or a group chat.
type Category string

const (
	Direct Category = "direct"
	Group  Category = "group"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == Direct || c == Group
}

// Status is the delivery state of a message.
type Status string

const (
	StatusSent Status = "sent"

	// Reserved for a delivery layer; nothing in this module produces them.
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
)

// Conversation is one entry of the conversation list.
type Conversation struct {
	ID                 string
	DisplayName        string
	AvatarRef          string
	LastMessagePreview string
	LastUpdatedAt      time.Time
	UnreadCount        int
	Pinned             bool
	Category           Category
}

// Message is one entry of a conversation thread.
type Message struct {
	ID        int64
	Text      string
	FromSelf  bool
	Timestamp time.Time
	Status    Status
}

// Before reports whether m sorts before o in a thread: by timestamp, then id.
func (m Message) Before(o Message) bool {
	if m.Timestamp.Equal(o.Timestamp) {
		return m.ID < o.ID
	}
	return m.Timestamp.Before(o.Timestamp)
}

// GuessCategory derives a category from a display name the way the sample
// data names its chats. It is only meant for seeding sample conversations;
// real conversations carry an explicit category.
func GuessCategory(displayName string) Category {
	if strings.Contains(strings.ToLower(displayName), "group") {
		return Group
	}
	return Direct
}
