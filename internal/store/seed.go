package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/convo/internal/chat"
)

type sampleMessage struct {
	text     string
	fromSelf bool
	ago      time.Duration
}

type sampleConversation struct {
	name    string
	unread  int
	pinned  bool
	history []sampleMessage
}

var samples = []sampleConversation{
	{name: "Alice", unread: 2, history: []sampleMessage{
		{"Hey! Are we still on for lunch?", false, 40 * time.Minute},
		{"Yes :smile: 12:30 works", true, 35 * time.Minute},
		{"Great, see you there :wave:", false, 5 * time.Minute},
	}},
	{name: "Bob", history: []sampleMessage{
		{"Did you push the fix?", false, 3 * time.Hour},
		{"Just did :thumbsup:", true, 2*time.Hour + 50*time.Minute},
	}},
	{name: "Group Chat 1", unread: 5, pinned: true, history: []sampleMessage{
		{"Who's bringing snacks?", false, 26 * time.Hour},
		{"I can :tada:", true, 25 * time.Hour},
		{"Party starts at 8 :fire:", false, 90 * time.Minute},
	}},
	{name: "Carol", unread: 1, history: []sampleMessage{
		{"Miss you :heart:", false, 2 * 24 * time.Hour},
	}},
	{name: "Weekend Group", history: []sampleMessage{
		{"Hike on Saturday?", true, 4 * 24 * time.Hour},
		{"Count me in :laugh:", false, 4*24*time.Hour - 10*time.Minute},
	}},
}

// SeedResult describes what SeedSample wrote.
type SeedResult struct {
	Conversations int
	Messages      int
	Skipped       bool
}

// SeedSample fills an empty database with sample conversations whose times are
// relative to now. A database that already holds conversations is left alone.
func (db *DB) SeedSample(now time.Time) (SeedResult, error) {
	count, err := db.ConversationCount()
	if err != nil {
		return SeedResult{}, err
	}
	if count > 0 {
		return SeedResult{Skipped: true}, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return SeedResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var res SeedResult
	for _, s := range samples {
		last := s.history[len(s.history)-1]
		c := chat.Conversation{
			ID:                 uuid.NewString(),
			DisplayName:        s.name,
			LastMessagePreview: last.text,
			LastUpdatedAt:      now.Add(-last.ago),
			UnreadCount:        s.unread,
			Pinned:             s.pinned,
			Category:           chat.GuessCategory(s.name),
		}
		if err := upsertConversation(tx, &c); err != nil {
			return SeedResult{}, fmt.Errorf("seed %q: %w", s.name, err)
		}
		res.Conversations++
		for i, sm := range s.history {
			m := chat.Message{
				ID:        int64(i + 1),
				Text:      sm.text,
				FromSelf:  sm.fromSelf,
				Status:    chat.StatusSent,
				Timestamp: now.Add(-sm.ago),
			}
			if err := insertMessage(tx, c.ID, &m); err != nil {
				return SeedResult{}, fmt.Errorf("seed %q message %d: %w", s.name, i+1, err)
			}
			res.Messages++
		}
	}
	if err := tx.Commit(); err != nil {
		return SeedResult{}, err
	}
	return res, nil
}
