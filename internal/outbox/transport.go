package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/matheus3301/convo/internal/bus"
	"github.com/matheus3301/convo/internal/sync"
	"go.uber.org/zap"
)

// Transport names accepted by NewTransport.
const (
	TransportLog  = "log"
	TransportEcho = "echo"
)

// LogTransport records each envelope in the log and goes no further.
type LogTransport struct {
	Logger *zap.Logger
}

func (t LogTransport) Deliver(_ context.Context, env Envelope) (string, error) {
	if t.Logger != nil {
		t.Logger.Info("outbound message",
			zap.String("conversation_id", env.ConversationID),
			zap.Int64("message_id", env.Message.ID),
			zap.Int("length", len(env.Message.Text)))
	}
	return "log:" + env.ID, nil
}

// EchoTransport answers every message with an inbound "echo: <text>" after
// Delay, published on the bus for the sync engine. It stands in for a peer.
type EchoTransport struct {
	Bus   *bus.Bus
	Delay time.Duration
	Now   func() time.Time
}

func (t EchoTransport) Deliver(ctx context.Context, env Envelope) (string, error) {
	if t.Delay > 0 {
		timer := time.NewTimer(t.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	sync.Publish(t.Bus, sync.Inbound{
		ConversationID: env.ConversationID,
		Text:           "echo: " + env.Message.Text,
		OccurredAt:     now(),
	})
	return "echo:" + env.ID, nil
}

// NewTransport builds a transport by name.
func NewTransport(name string, b *bus.Bus, logger *zap.Logger) (Transport, error) {
	switch name {
	case "", TransportLog:
		return LogTransport{Logger: logger}, nil
	case TransportEcho:
		return EchoTransport{Bus: b, Delay: 750 * time.Millisecond}, nil
	default:
		return nil, fmt.Errorf("unknown outbox transport %q", name)
	}
}
