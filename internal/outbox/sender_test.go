package outbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	gosync "sync"
	"testing"
	"time"

	"github.com/matheus3301/convo/internal/bus"
	"github.com/matheus3301/convo/internal/chat"
	"github.com/matheus3301/convo/internal/sync"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// mockTransport records calls and returns configurable results.
type mockTransport struct {
	mu    gosync.Mutex
	calls []Envelope
	err   error
	block chan struct{}
}

func (m *mockTransport) Deliver(ctx context.Context, env Envelope) (string, error) {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, env)
	if m.err != nil {
		return "", m.err
	}
	return "ref-" + env.ConversationID, nil
}

func waitEvent(t *testing.T, ch <-chan bus.Event, kind string) bus.Event {
	t.Helper()
	select {
	case evt := <-ch:
		if evt.Kind != kind {
			t.Fatalf("event kind = %q, want %q", evt.Kind, kind)
		}
		return evt
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for %s", kind)
	}
	return bus.Event{}
}

func TestSenderDispatches(t *testing.T) {
	b := bus.New()
	mock := &mockTransport{}
	var healthErrs []error
	s := NewSender(Params{
		Transport: mock,
		Bus:       b,
		Buffer:    4,
		Health:    func(err error) { healthErrs = append(healthErrs, err) },
	})

	ch, unsub := b.Subscribe(bus.KindMessageDispatched, 10)
	defer unsub()

	env, err := s.Enqueue("c1", chat.Message{ID: 1, Text: "hello", FromSelf: true})
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if env.ID == "" {
		t.Error("envelope id not assigned")
	}

	s.Start(context.Background())
	evt := waitEvent(t, ch, bus.KindMessageDispatched)
	s.Stop()

	d, ok := evt.Payload.(Dispatched)
	if !ok {
		t.Fatalf("payload type = %T", evt.Payload)
	}
	if d.Ref != "ref-c1" || d.Envelope.ID != env.ID || d.Envelope.Message.Text != "hello" {
		t.Errorf("payload = %+v", d)
	}
	if got := s.Stats(); got != (Stats{Queued: 1, Dispatched: 1}) {
		t.Errorf("Stats() = %+v", got)
	}
	if len(healthErrs) != 1 || healthErrs[0] != nil {
		t.Errorf("health = %v, want [nil]", healthErrs)
	}
}

func TestSenderHandlesFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	b := bus.New()
	s := NewSender(Params{Transport: &mockTransport{err: fmt.Errorf("network error")}, Bus: b, Logger: zap.New(core)})

	ch, unsub := b.Subscribe(bus.KindMessageDispatchFailed, 10)
	defer unsub()

	s.Start(context.Background())
	defer s.Stop()
	if _, err := s.Enqueue("c1", chat.Message{ID: 1, Text: "hello"}); err != nil {
		t.Fatal(err)
	}

	evt := waitEvent(t, ch, bus.KindMessageDispatchFailed)
	if f := evt.Payload.(DispatchFailed); f.Err != "network error" {
		t.Errorf("payload = %+v", f)
	}
	if logs.FilterMessage("failed to dispatch message").Len() != 1 {
		t.Errorf("failure not logged: %v", logs.All())
	}
}

func TestEnqueueNeverBlocks(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe(bus.KindMessageDispatchFailed, 10)
	defer unsub()

	// Not started: nothing drains the queue.
	s := NewSender(Params{Transport: &mockTransport{}, Bus: b, Buffer: 2})
	for i := range 2 {
		if _, err := s.Enqueue("c1", chat.Message{ID: int64(i + 1)}); err != nil {
			t.Fatalf("Enqueue(%d) error = %v", i, err)
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.Enqueue("c1", chat.Message{ID: 3})
		done <- err
	}()
	select {
	case err := <-done:
		if !errors.Is(err, ErrQueueFull) {
			t.Errorf("Enqueue(full) error = %v, want ErrQueueFull", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
	waitEvent(t, ch, bus.KindMessageDispatchFailed)
	if s.Pending() != 2 || s.Stats().Dropped != 1 {
		t.Errorf("Pending() = %d, Stats() = %+v", s.Pending(), s.Stats())
	}
}

func TestStopInterruptsDelivery(t *testing.T) {
	mock := &mockTransport{block: make(chan struct{})}
	s := NewSender(Params{Transport: mock, Bus: bus.New()})
	s.Start(context.Background())
	if _, err := s.Enqueue("c1", chat.Message{ID: 1}); err != nil {
		t.Fatal(err)
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return while a delivery was blocked")
	}
}

func TestEchoTransportRepliesOnBus(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("inbound.", 1)
	defer unsub()

	at := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	tr := EchoTransport{Bus: b, Now: func() time.Time { return at }}
	ref, err := tr.Deliver(context.Background(), Envelope{ID: "e1", ConversationID: "c1", Message: chat.Message{Text: "ping"}})
	if err != nil || !strings.HasPrefix(ref, "echo:") {
		t.Fatalf("Deliver() = %q, %v", ref, err)
	}
	evt := waitEvent(t, ch, bus.KindInboundMessage)
	in := evt.Payload.(sync.Inbound)
	if in.ConversationID != "c1" || in.Text != "echo: ping" || !in.OccurredAt.Equal(at) {
		t.Errorf("inbound = %+v", in)
	}
}

func TestNewTransport(t *testing.T) {
	for _, name := range []string{"", TransportLog, TransportEcho} {
		if _, err := NewTransport(name, bus.New(), nil); err != nil {
			t.Errorf("NewTransport(%q) error = %v", name, err)
		}
	}
	if _, err := NewTransport("carrier-pigeon", bus.New(), nil); err == nil {
		t.Error("NewTransport(unknown) expected error")
	}
}
