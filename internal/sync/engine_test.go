package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/matheus3301/convo/internal/bus"
	"github.com/matheus3301/convo/internal/chat"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var t0 = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

type received struct {
	id   string
	text string
	at   time.Time
}

// fakeReceiver mimics the hub: unknown ids fail, older timestamps are advisory.
type fakeReceiver struct {
	mu     stdsync.Mutex
	known  map[string]time.Time
	got    []received
	notify chan struct{}
}

func newFakeReceiver(ids ...string) *fakeReceiver {
	r := &fakeReceiver{known: make(map[string]time.Time), notify: make(chan struct{}, 16)}
	for _, id := range ids {
		r.known[id] = t0
	}
	return r
}

func (r *fakeReceiver) Receive(id, text string, at time.Time) (chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	last, ok := r.known[id]
	if !ok {
		return chat.Message{}, chat.ErrNotFound
	}
	r.got = append(r.got, received{id, text, at})
	r.notify <- struct{}{}
	m := chat.Message{ID: int64(len(r.got)), Text: text, Timestamp: at}
	if at.Before(last) {
		return m, &chat.OutOfOrderError{ConversationID: id, Current: last, Got: at}
	}
	r.known[id] = at
	return m, nil
}

func (r *fakeReceiver) received() []received {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]received(nil), r.got...)
}

func TestIngest(t *testing.T) {
	r := newFakeReceiver("1")
	e := NewEngine(r, bus.New(), nil)
	e.now = func() time.Time { return t0.Add(time.Hour) }

	m, err := e.Ingest(Inbound{ConversationID: "1", Text: "hi"})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if !m.Timestamp.Equal(t0.Add(time.Hour)) {
		t.Errorf("zero OccurredAt should use now, got %v", m.Timestamp)
	}

	if _, err := e.Ingest(Inbound{ConversationID: "1", Text: "old", OccurredAt: t0}); !errors.Is(err, chat.ErrOutOfOrder) {
		t.Errorf("Ingest(old) error = %v, want ErrOutOfOrder", err)
	}
	if _, err := e.Ingest(Inbound{Text: "nowhere"}); !errors.Is(err, chat.ErrNotFound) {
		t.Errorf("Ingest(no conversation) error = %v, want ErrNotFound", err)
	}
	if _, err := e.Ingest(Inbound{ConversationID: "9", Text: "x"}); !errors.Is(err, chat.ErrNotFound) {
		t.Errorf("Ingest(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestIngestBatchAppliesOldestFirst(t *testing.T) {
	r := newFakeReceiver("1", "2")
	e := NewEngine(r, bus.New(), nil)

	res, err := e.IngestBatch([]Inbound{
		{ConversationID: "1", Text: "third", OccurredAt: t0.Add(3 * time.Minute)},
		{ConversationID: "1", Text: "first", OccurredAt: t0.Add(time.Minute)},
		{ConversationID: "2", Text: "stale", OccurredAt: t0.Add(-time.Minute)},
		{ConversationID: "x", Text: "lost", OccurredAt: t0.Add(2 * time.Minute)},
	})
	if !errors.Is(err, chat.ErrNotFound) {
		t.Errorf("IngestBatch() error = %v, want ErrNotFound joined", err)
	}
	if res != (BatchResult{Applied: 3, OutOfOrder: 1, Failed: 1}) {
		t.Errorf("IngestBatch() = %+v", res)
	}

	var texts []string
	for _, g := range r.received() {
		texts = append(texts, g.text)
	}
	want := []string{"stale", "first", "third"}
	if len(texts) != len(want) {
		t.Fatalf("received %v, want %v", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("received %v, want %v", texts, want)
			break
		}
	}
}

func TestEngineConsumesBusEvents(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	b := bus.New()
	r := newFakeReceiver("1")
	e := NewEngine(r, b, zap.New(core))
	e.Start(context.Background())

	Publish(b, Inbound{ConversationID: "1", Text: "hello", OccurredAt: t0.Add(time.Minute)})
	select {
	case <-r.notify:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for ingestion")
	}

	Publish(b, Inbound{ConversationID: "missing", Text: "x"})
	deadline := time.Now().Add(time.Second)
	for logs.FilterMessage("failed to ingest message").Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("unknown conversation was not logged")
		}
		time.Sleep(5 * time.Millisecond)
	}

	e.Stop()
	got := r.received()
	if len(got) != 1 || got[0].text != "hello" {
		t.Errorf("received = %+v", got)
	}
}

func TestStopWithoutStart(t *testing.T) {
	e := NewEngine(newFakeReceiver(), bus.New(), nil)
	e.Stop()
}
