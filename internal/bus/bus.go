package bus

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Bus fans events out to subscribers by kind prefix. Publish never blocks:
// a subscriber whose buffer is full misses the event.
type Bus struct {
	mu   sync.RWMutex
	subs map[uint64]*subscriber
	next uint64
	now  func() time.Time
}

type subscriber struct {
	prefixes []string
	ch       chan Event
	dropped  atomic.Int64
}

func (s *subscriber) wants(kind string) bool {
	if len(s.prefixes) == 0 {
		return true
	}
	return slices.ContainsFunc(s.prefixes, func(p string) bool { return strings.HasPrefix(kind, p) })
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[uint64]*subscriber), now: time.Now}
}

// Publish delivers evt to every matching subscriber, stamping a zero
// Timestamp first. Publishing on a nil bus is a no-op.
func (b *Bus) Publish(evt Event) {
	if b == nil {
		return
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = b.now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		if !s.wants(evt.Kind) {
			continue
		}
		select {
		case s.ch <- evt:
		default:
			s.dropped.Add(1)
		}
	}
}

// Subscribe receives events whose kind starts with namespace; "" matches
// everything. The returned func unsubscribes.
func (b *Bus) Subscribe(namespace string, bufSize int) (<-chan Event, func()) {
	if namespace == "" {
		return b.SubscribeAny(nil, bufSize)
	}
	return b.SubscribeAny([]string{namespace}, bufSize)
}

// SubscribeAny receives events matching any of prefixes, or all events
// when prefixes is empty.
func (b *Bus) SubscribeAny(prefixes []string, bufSize int) (<-chan Event, func()) {
	s := &subscriber{prefixes: slices.Clone(prefixes), ch: make(chan Event, bufSize)}

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = s
	b.mu.Unlock()

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Dropped totals the events live subscribers missed on a full buffer.
func (b *Bus) Dropped() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var n int64
	for _, s := range b.subs {
		n += s.dropped.Load()
	}
	return int(n)
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
