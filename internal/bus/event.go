package bus

import "time"

// Event kinds published by the hub and its collaborators. Subscribers filter
// by prefix, e.g. "conversation." or "message.".
const (
	KindConversationPinned   = "conversation.pinned"
	KindConversationUnpinned = "conversation.unpinned"
	KindConversationDeleted  = "conversation.deleted"
	KindConversationRead     = "conversation.read"
	KindConversationUpdated  = "conversation.updated"
	KindTagSelected          = "conversation.tag_selected"

	KindMessageSent           = "message.sent"
	KindMessageReceived       = "message.received"
	KindMessageDeleted        = "message.deleted"
	KindMessageDispatched     = "message.dispatched"
	KindMessageDispatchFailed = "message.dispatch_failed"

	KindInboundMessage = "inbound.message"

	KindSessionStatusChanged = "session.status_changed"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind           string
	Timestamp      time.Time
	ConversationID string
	Payload        any
}
