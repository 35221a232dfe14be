package store

import (
	"database/sql"
	"time"

	"github.com/matheus3301/convo/internal/chat"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// upsertConversation inserts or replaces a conversation row.
func upsertConversation(ex execer, c *chat.Conversation) error {
	_, err := ex.Exec(`
		INSERT INTO conversations (id, display_name, avatar_ref, last_message_preview, last_updated_at, unread_count, pinned, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			avatar_ref = excluded.avatar_ref,
			last_message_preview = excluded.last_message_preview,
			last_updated_at = excluded.last_updated_at,
			unread_count = excluded.unread_count,
			pinned = excluded.pinned,
			category = excluded.category`,
		c.ID, c.DisplayName, c.AvatarRef, c.LastMessagePreview, toMillis(c.LastUpdatedAt),
		c.UnreadCount, c.Pinned, string(c.Category))
	return err
}

// ListConversations returns every conversation. Order is unspecified; the
// list engine derives display order itself.
func (db *DB) ListConversations() ([]chat.Conversation, error) {
	rows, err := db.Query(`
		SELECT id, display_name, avatar_ref, last_message_preview, last_updated_at, unread_count, pinned, category
		FROM conversations`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var convs []chat.Conversation
	for rows.Next() {
		var (
			c        chat.Conversation
			updated  int64
			category string
		)
		if err := rows.Scan(&c.ID, &c.DisplayName, &c.AvatarRef, &c.LastMessagePreview, &updated, &c.UnreadCount, &c.Pinned, &category); err != nil {
			return nil, err
		}
		c.LastUpdatedAt = fromMillis(updated)
		c.Category = chat.Category(category)
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

// ConversationCount returns the number of stored conversations.
func (db *DB) ConversationCount() (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&count)
	return count, err
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
