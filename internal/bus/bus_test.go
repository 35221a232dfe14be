package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("conversation.", 10)
	defer unsub()

	b.Publish(Event{Kind: KindConversationPinned, ConversationID: "1"})

	select {
	case evt := <-ch:
		if evt.Kind != KindConversationPinned {
			t.Errorf("got kind %q, want %s", evt.Kind, KindConversationPinned)
		}
		if evt.ConversationID != "1" {
			t.Errorf("conversation id = %q, want 1", evt.ConversationID)
		}
		if evt.Timestamp.IsZero() {
			t.Error("Publish() should stamp a zero timestamp")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("message.", 10)
	defer unsub()

	b.Publish(Event{Kind: KindConversationRead})
	b.Publish(Event{Kind: KindMessageSent})

	select {
	case evt := <-ch:
		if evt.Kind != KindMessageSent {
			t.Errorf("got kind %q, want %s", evt.Kind, KindMessageSent)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	// The conversation event must not be delivered.
	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
		// Expected: no more events.
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("inbound.", 10)
	unsub()

	b.Publish(Event{Kind: KindInboundMessage})

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
		// Expected.
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("test.", 1)
	defer unsub()

	// Fill buffer.
	b.Publish(Event{Kind: "test.one"})
	// This should be dropped (non-blocking).
	b.Publish(Event{Kind: "test.two"})

	evt := <-ch
	if evt.Kind != "test.one" {
		t.Errorf("got %q, want test.one", evt.Kind)
	}
	if b.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", b.Dropped())
	}
}

func TestNilBusPublish(t *testing.T) {
	var b *Bus
	b.Publish(Event{Kind: KindMessageSent})
}

func TestSubscribeAnyMatchesEveryPrefix(t *testing.T) {
	b := New()
	ch, unsub := b.SubscribeAny([]string{"conversation.", "message."}, 10)
	defer unsub()

	b.Publish(Event{Kind: KindSessionStatusChanged})
	b.Publish(Event{Kind: KindMessageSent})
	b.Publish(Event{Kind: KindConversationRead})

	for _, want := range []string{KindMessageSent, KindConversationRead} {
		select {
		case evt := <-ch:
			if evt.Kind != want {
				t.Errorf("got %q, want %q", evt.Kind, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for %s", want)
		}
	}
	if len(ch) != 0 {
		t.Errorf("%d unexpected events buffered", len(ch))
	}
}

func TestUnsubscribeTwice(t *testing.T) {
	b := New()
	_, unsub := b.Subscribe("", 1)
	_, keep := b.Subscribe("", 1)
	defer keep()
	unsub()
	unsub()
	if got := b.Subscribers(); got != 1 {
		t.Errorf("Subscribers() = %d, want 1", got)
	}
}
