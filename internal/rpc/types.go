package rpc

// Empty is the request or response of calls that carry nothing.
type Empty struct{}

// Conversation is a conversation as shown in the list.
type Conversation struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarRef   string `json:"avatar_ref,omitempty"`
	// Preview is the enriched last message preview.
	Preview           string `json:"preview"`
	LastUpdatedUnixMs int64  `json:"last_updated_unix_ms"`
	UnreadCount       int    `json:"unread_count"`
	Pinned            bool   `json:"pinned"`
	Category          string `json:"category"`
}

// Message is one thread entry with its display-ready fields.
type Message struct {
	ID              int64  `json:"id"`
	Text            string `json:"text"`
	DisplayText     string `json:"display_text"`
	FromSelf        bool   `json:"from_self"`
	TimestampUnixMs int64  `json:"timestamp_unix_ms"`
	// Time is the 12-hour clock rendering, e.g. "1:05 PM".
	Time   string `json:"time"`
	Status string `json:"status"`
}

type ListConversationsRequest struct {
	Filter string `json:"filter,omitempty"`
	// Tag is "all", "direct" or "group". Empty uses the daemon's selected tag.
	Tag string `json:"tag,omitempty"`
}

type ListConversationsResponse struct {
	Pinned      []*Conversation `json:"pinned"`
	Others      []*Conversation `json:"others"`
	Tag         string          `json:"tag"`
	TotalUnread int             `json:"total_unread"`
}

type ConversationRequest struct {
	ID string `json:"id"`
}

type ConversationResponse struct {
	Conversation *Conversation `json:"conversation"`
}

type TotalUnreadResponse struct {
	TotalUnread int `json:"total_unread"`
}

// Intent names accepted by Dispatch.
const (
	IntentPin       = "pin"
	IntentUnpin     = "unpin"
	IntentDelete    = "delete"
	IntentCancel    = "cancel"
	IntentSelectTag = "select_tag"
)

type DispatchRequest struct {
	Intent string `json:"intent"`
	ID     string `json:"id,omitempty"`
	Tag    string `json:"tag,omitempty"`
}

type DispatchResponse struct {
	SelectedTag string `json:"selected_tag"`
}

type Action struct {
	Intent string `json:"intent"`
	Label  string `json:"label"`
}

type ActionsResponse struct {
	Actions []Action `json:"actions"`
}

type DeliverRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	// OccurredAtUnixMs of zero means now.
	OccurredAtUnixMs int64 `json:"occurred_at_unix_ms,omitempty"`
}

type DeliverResponse struct {
	Message *Message `json:"message"`
	// Warning is set when the message was applied but is older than the
	// conversation's last activity.
	Warning string `json:"warning,omitempty"`
}

type WatchRequest struct {
	// Prefixes filters event kinds, e.g. "conversation.". Empty means all.
	Prefixes []string `json:"prefixes,omitempty"`
}

type EventEnvelope struct {
	EventID          string `json:"event_id"`
	Session          string `json:"session"`
	OccurredAtUnixMs int64  `json:"occurred_at_unix_ms"`
	Kind             string `json:"kind"`
	ConversationID   string `json:"conversation_id,omitempty"`
}

type OpenThreadRequest struct {
	ID          string `json:"id"`
	NewestFirst bool   `json:"newest_first"`
}

type ThreadResponse struct {
	Conversation *Conversation `json:"conversation"`
	Messages     []*Message    `json:"messages"`
}

type ListMessagesRequest struct {
	ID          string `json:"id"`
	NewestFirst bool   `json:"newest_first"`
}

type SendMessageRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type SendMessageResponse struct {
	Message *Message `json:"message"`
}

type DeleteMessageRequest struct {
	ID        string `json:"id"`
	MessageID int64  `json:"message_id"`
}

type OutboxStats struct {
	Pending    int `json:"pending"`
	Dispatched int `json:"dispatched"`
	Failed     int `json:"failed"`
	Dropped    int `json:"dropped"`
}

type StatusResponse struct {
	Session           string      `json:"session"`
	Status            string      `json:"status"`
	Reason            string      `json:"reason,omitempty"`
	SinceUnixMs       int64       `json:"since_unix_ms"`
	UptimeMs          int64       `json:"uptime_ms"`
	ConversationCount int         `json:"conversation_count"`
	TotalUnread       int         `json:"total_unread"`
	OpenConversation  string      `json:"open_conversation,omitempty"`
	StoredMessages    int64       `json:"stored_messages"`
	Outbox            OutboxStats `json:"outbox"`
}
