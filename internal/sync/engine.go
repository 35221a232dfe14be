// Package sync ingests inbound messages from a delivery collaborator into the
// hub, one at a time.
package sync

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/matheus3301/convo/internal/bus"
	"github.com/matheus3301/convo/internal/chat"
	"go.uber.org/zap"
)

// Inbound is a message from a peer that has not been applied yet.
type Inbound struct {
	ConversationID string
	Text           string
	// OccurredAt is when the peer sent it. Zero means now.
	OccurredAt time.Time
}

// Receiver applies an inbound message. *hub.Hub implements it.
type Receiver interface {
	Receive(conversationID, text string, at time.Time) (chat.Message, error)
}

// Engine delivers inbound messages to a Receiver. Messages published on the
// bus under "inbound." are ingested by a single goroutine between Start and
// Stop; Ingest may also be called directly.
type Engine struct {
	recv   Receiver
	bus    *bus.Bus
	logger *zap.Logger
	now    func() time.Time
	cancel context.CancelFunc
	done   chan struct{}
}

// NewEngine creates a new sync engine.
func NewEngine(r Receiver, b *bus.Bus, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		recv:   r,
		bus:    b,
		logger: logger,
		now:    time.Now,
	}
}

// Publish queues an inbound message on the bus for a running Engine.
func Publish(b *bus.Bus, in Inbound) {
	b.Publish(bus.Event{
		Kind:           bus.KindInboundMessage,
		ConversationID: in.ConversationID,
		Payload:        in,
	})
}

// Start subscribes to inbound events on the bus.
func (e *Engine) Start(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)
	e.done = make(chan struct{})
	ch, unsub := e.bus.Subscribe("inbound.", 256)

	go func() {
		defer close(e.done)
		defer unsub()
		for {
			select {
			case evt := <-ch:
				e.handleEvent(evt)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the engine and waits for the current message to finish.
func (e *Engine) Stop() {
	if e.cancel == nil {
		return
	}
	e.cancel()
	<-e.done
}

func (e *Engine) handleEvent(evt bus.Event) {
	in, ok := evt.Payload.(Inbound)
	if !ok {
		e.logger.Warn("unexpected inbound payload", zap.String("kind", evt.Kind), zap.Any("payload", evt.Payload))
		return
	}
	if _, err := e.Ingest(in); err != nil && !chat.IsAdvisory(err) {
		e.logger.Error("failed to ingest message", zap.Error(err), zap.String("conversation_id", in.ConversationID))
	}
}

// Ingest applies one inbound message. An advisory *chat.OutOfOrderError is
// returned together with the applied message.
func (e *Engine) Ingest(in Inbound) (chat.Message, error) {
	if in.ConversationID == "" {
		return chat.Message{}, fmt.Errorf("inbound message without conversation: %w", chat.ErrNotFound)
	}
	at := in.OccurredAt
	if at.IsZero() {
		at = e.now()
	}
	return e.recv.Receive(in.ConversationID, in.Text, at)
}

// BatchResult summarizes IngestBatch.
type BatchResult struct {
	Applied    int
	OutOfOrder int
	Failed     int
}

// IngestBatch applies a backlog oldest first, so a batch delivered in any
// order only produces advisories for messages older than what the hub
// already holds. Failures are collected and returned joined.
func (e *Engine) IngestBatch(batch []Inbound) (BatchResult, error) {
	sorted := slices.Clone(batch)
	slices.SortStableFunc(sorted, func(a, b Inbound) int {
		return cmp.Compare(a.OccurredAt.UnixNano(), b.OccurredAt.UnixNano())
	})

	var (
		res  BatchResult
		errs []error
	)
	for _, in := range sorted {
		_, err := e.Ingest(in)
		switch {
		case err == nil:
			res.Applied++
		case chat.IsAdvisory(err):
			res.Applied++
			res.OutOfOrder++
		default:
			res.Failed++
			errs = append(errs, err)
		}
	}
	if res.Applied > 0 {
		e.logger.Info("inbound batch ingested",
			zap.Int("applied", res.Applied), zap.Int("out_of_order", res.OutOfOrder), zap.Int("failed", res.Failed))
	}
	return res, errors.Join(errs...)
}
