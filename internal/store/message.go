package store

import (
	"fmt"

	"github.com/matheus3301/convo/internal/chat"
)

// insertMessage stores a message of a conversation (idempotent on conversation_id + id).
func insertMessage(ex execer, conversationID string, m *chat.Message) error {
	status := m.Status
	if status == "" {
		status = chat.StatusSent
	}
	_, err := ex.Exec(`
		INSERT INTO messages (conversation_id, id, body, from_self, status, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(conversation_id, id) DO UPDATE SET
			body = excluded.body,
			status = excluded.status`,
		conversationID, m.ID, m.Text, m.FromSelf, string(status), toMillis(m.Timestamp))
	return err
}

// ListMessages returns a conversation's messages oldest first.
func (db *DB) ListMessages(conversationID string) ([]chat.Message, error) {
	rows, err := db.Query(`
		SELECT id, body, from_self, status, timestamp
		FROM messages
		WHERE conversation_id = ?
		ORDER BY timestamp ASC, id ASC`, conversationID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var msgs []chat.Message
	for rows.Next() {
		var (
			m      chat.Message
			status string
			ts     int64
		)
		if err := rows.Scan(&m.ID, &m.Text, &m.FromSelf, &status, &ts); err != nil {
			return nil, err
		}
		m.Status = chat.Status(status)
		m.Timestamp = fromMillis(ts)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// MessageCount returns the total number of stored messages. It backs the
// stored message total in the session status.
func (db *DB) MessageCount() (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&count)
	return count, err
}

// Snapshot is the initial state a session is built from.
type Snapshot struct {
	Conversations []chat.Conversation
	History       map[string][]chat.Message
}

// LoadSnapshot reads every conversation and its history.
func (db *DB) LoadSnapshot() (*Snapshot, error) {
	convs, err := db.ListConversations()
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	snap := &Snapshot{
		Conversations: convs,
		History:       make(map[string][]chat.Message, len(convs)),
	}
	for _, c := range convs {
		msgs, err := db.ListMessages(c.ID)
		if err != nil {
			return nil, fmt.Errorf("list messages of %q: %w", c.ID, err)
		}
		if len(msgs) > 0 {
			snap.History[c.ID] = msgs
		}
	}
	return snap, nil
}
