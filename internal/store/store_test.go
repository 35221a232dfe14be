package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheus3301/convo/internal/chat"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)

	// testDB already ran Migrate.
	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed() {
		t.Errorf("second Migrate() = %+v, want no change", result)
	}
	if result.To != 1 {
		t.Errorf("version = %d, want 1", result.To)
	}
}

func TestMigrateFromEmpty(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.From != 0 || result.To != 1 || !result.Changed() {
		t.Errorf("Migrate() = %+v, want 0 -> 1", result)
	}
}

func TestMigrateRefusesDirtySchema(t *testing.T) {
	db := testDB(t)
	if _, err := db.Exec(`UPDATE schema_migrations SET dirty = 1`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); !errors.Is(err, ErrDirty) {
		t.Errorf("Migrate() error = %v, want ErrDirty", err)
	}
}

func TestSchemaConstraints(t *testing.T) {
	db := testDB(t)

	bad := []struct {
		desc  string
		query string
		args  []any
	}{
		{"negative unread", "INSERT INTO conversations (id, display_name, unread_count, category) VALUES (?, ?, ?, ?)", []any{"x", "X", -1, "direct"}},
		{"unknown category", "INSERT INTO conversations (id, display_name, category) VALUES (?, ?, ?)", []any{"y", "Y", "broadcast"}},
		{"orphan message", "INSERT INTO messages (conversation_id, id, body, timestamp) VALUES (?, ?, ?, ?)", []any{"nope", 1, "hi", 1000}},
	}
	for _, op := range bad {
		t.Run(op.desc, func(t *testing.T) {
			if _, err := db.Exec(op.query, op.args...); err == nil {
				t.Fatalf("%s: expected constraint error", op.desc)
			}
		})
	}
}

func TestConversationUpsert(t *testing.T) {
	db := testDB(t)
	at := time.UnixMilli(1_700_000_000_000)

	c := &chat.Conversation{ID: "c1", DisplayName: "Alice", LastMessagePreview: "hi", LastUpdatedAt: at, UnreadCount: 2, Category: chat.Direct}
	if err := upsertConversation(db, c); err != nil {
		t.Fatal(err)
	}
	c.Pinned = true
	c.UnreadCount = 0
	if err := upsertConversation(db, c); err != nil {
		t.Fatal(err)
	}

	convs, err := db.ListConversations()
	if err != nil {
		t.Fatal(err)
	}
	if len(convs) != 1 {
		t.Fatalf("ListConversations() = %+v, want one row", convs)
	}
	got := convs[0]
	if !got.Pinned || got.UnreadCount != 0 || !got.LastUpdatedAt.Equal(at) || got.Category != chat.Direct {
		t.Errorf("ListConversations()[0] = %+v", got)
	}
	if n, _ := db.ConversationCount(); n != 1 {
		t.Errorf("ConversationCount() = %d, want 1", n)
	}
}

func TestMessagesOrderedAndCascade(t *testing.T) {
	db := testDB(t)
	at := time.UnixMilli(1_700_000_000_000)
	if err := upsertConversation(db, &chat.Conversation{ID: "c1", DisplayName: "Alice", Category: chat.Direct}); err != nil {
		t.Fatal(err)
	}
	for _, m := range []chat.Message{
		{ID: 2, Text: "b", Timestamp: at},
		{ID: 3, Text: "c", Timestamp: at.Add(time.Second), FromSelf: true},
		{ID: 1, Text: "a", Timestamp: at},
	} {
		if err := insertMessage(db, "c1", &m); err != nil {
			t.Fatal(err)
		}
	}

	msgs, err := db.ListMessages("c1")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c"}
	if len(msgs) != len(want) {
		t.Fatalf("len = %d, want %d", len(msgs), len(want))
	}
	for i, m := range msgs {
		if m.Text != want[i] {
			t.Errorf("msgs[%d] = %q, want %q", i, m.Text, want[i])
		}
	}
	if msgs[0].Status != chat.StatusSent || !msgs[2].FromSelf {
		t.Errorf("status/from_self not round-tripped: %+v", msgs)
	}

	if _, err := db.Exec("DELETE FROM conversations WHERE id = ?", "c1"); err != nil {
		t.Fatal(err)
	}
	if n, _ := db.MessageCount(); n != 0 {
		t.Errorf("MessageCount() after cascade = %d, want 0", n)
	}
}

func TestSeedSample(t *testing.T) {
	db := testDB(t)
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

	res, err := db.SeedSample(now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped || res.Conversations != len(samples) || res.Messages == 0 {
		t.Fatalf("SeedSample() = %+v", res)
	}
	if n, err := db.MessageCount(); err != nil || n != int64(res.Messages) {
		t.Errorf("MessageCount() = %d, %v, want %d", n, err, res.Messages)
	}

	again, err := db.SeedSample(now)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Skipped {
		t.Error("second SeedSample() should skip a non-empty database")
	}

	snap, err := db.LoadSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Conversations) != len(samples) {
		t.Fatalf("snapshot conversations = %d", len(snap.Conversations))
	}
	for _, c := range snap.Conversations {
		if c.Category != chat.GuessCategory(c.DisplayName) {
			t.Errorf("%s category = %s", c.DisplayName, c.Category)
		}
		hist := snap.History[c.ID]
		if len(hist) == 0 {
			t.Errorf("%s has no history", c.DisplayName)
			continue
		}
		last := hist[len(hist)-1]
		if last.Text != c.LastMessagePreview || !last.Timestamp.Equal(c.LastUpdatedAt) {
			t.Errorf("%s preview %q/%v does not match last message %q/%v",
				c.DisplayName, c.LastMessagePreview, c.LastUpdatedAt, last.Text, last.Timestamp)
		}
	}
}
