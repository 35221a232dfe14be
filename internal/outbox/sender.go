// Package outbox hands messages sent from this device to an outbound
// transport, off the caller's goroutine.
package outbox

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/convo/internal/bus"
	"github.com/matheus3301/convo/internal/chat"
	"go.uber.org/zap"
)

// ErrQueueFull is returned by Enqueue when the buffer is exhausted.
var ErrQueueFull = errors.New("outbox queue full")

// Envelope is one queued outbound message.
type Envelope struct {
	ID             string
	ConversationID string
	Message        chat.Message
	QueuedAt       time.Time
}

// Transport delivers an envelope to the outside world and returns a
// transport-specific reference.
type Transport interface {
	Deliver(ctx context.Context, env Envelope) (ref string, err error)
}

// Dispatched is the payload of message.dispatched events.
type Dispatched struct {
	Envelope Envelope
	Ref      string
}

// DispatchFailed is the payload of message.dispatch_failed events.
type DispatchFailed struct {
	Envelope Envelope
	Err      string
}

// Stats counts what the sender has handled.
type Stats struct {
	Queued     int
	Dispatched int
	Failed     int
	Dropped    int
}

// Params configures a Sender.
type Params struct {
	Transport Transport
	Bus       *bus.Bus
	Logger    *zap.Logger
	// Buffer is the queue capacity. Values below 1 mean 1.
	Buffer int
	// Health, when set, is called after every delivery attempt with its error.
	Health func(err error)
}

// Sender drains a bounded queue into a Transport from one worker goroutine.
type Sender struct {
	queue     chan Envelope
	transport Transport
	bus       *bus.Bus
	logger    *zap.Logger
	health    func(error)
	cancel    context.CancelFunc
	done      chan struct{}

	mu    sync.Mutex
	stats Stats
}

// NewSender creates a new outbox sender.
func NewSender(p Params) *Sender {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	return &Sender{
		queue:     make(chan Envelope, max(p.Buffer, 1)),
		transport: p.Transport,
		bus:       p.Bus,
		logger:    p.Logger,
		health:    p.Health,
	}
}

// Enqueue queues a message without blocking. It is safe to call while
// holding other locks.
func (s *Sender) Enqueue(conversationID string, m chat.Message) (Envelope, error) {
	env := Envelope{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Message:        m,
		QueuedAt:       time.Now(),
	}
	select {
	case s.queue <- env:
		s.count(func(st *Stats) { st.Queued++ })
		return env, nil
	default:
		s.count(func(st *Stats) { st.Dropped++ })
		s.logger.Warn("outbox full, message not dispatched",
			zap.String("conversation_id", conversationID), zap.Int64("message_id", m.ID))
		s.bus.Publish(bus.Event{
			Kind:           bus.KindMessageDispatchFailed,
			ConversationID: conversationID,
			Payload:        DispatchFailed{Envelope: env, Err: ErrQueueFull.Error()},
		})
		return env, ErrQueueFull
	}
}

// Start begins draining the queue.
func (s *Sender) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx)
}

// Stop stops the worker and waits for the in-flight delivery to return.
// Messages still queued are left undelivered.
func (s *Sender) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// Stats returns a snapshot of the counters.
func (s *Sender) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Pending returns the number of queued messages.
func (s *Sender) Pending() int { return len(s.queue) }

func (s *Sender) loop(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case env := <-s.queue:
			s.deliver(ctx, env)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sender) deliver(ctx context.Context, env Envelope) {
	ref, err := s.transport.Deliver(ctx, env)
	if s.health != nil {
		s.health(err)
	}
	if err != nil {
		s.count(func(st *Stats) { st.Failed++ })
		s.logger.Error("failed to dispatch message", zap.Error(err),
			zap.String("envelope_id", env.ID), zap.String("conversation_id", env.ConversationID))
		s.bus.Publish(bus.Event{
			Kind:           bus.KindMessageDispatchFailed,
			ConversationID: env.ConversationID,
			Payload:        DispatchFailed{Envelope: env, Err: err.Error()},
		})
		return
	}

	s.count(func(st *Stats) { st.Dispatched++ })
	s.logger.Info("message dispatched", zap.String("envelope_id", env.ID), zap.String("ref", ref))
	s.bus.Publish(bus.Event{
		Kind:           bus.KindMessageDispatched,
		ConversationID: env.ConversationID,
		Payload:        Dispatched{Envelope: env, Ref: ref},
	})
}

func (s *Sender) count(f func(*Stats)) {
	s.mu.Lock()
	f(&s.stats)
	s.mu.Unlock()
}
