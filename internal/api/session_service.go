package api

import (
	"context"
	"time"

	"github.com/matheus3301/convo/internal/hub"
	"github.com/matheus3301/convo/internal/outbox"
	"github.com/matheus3301/convo/internal/rpc"
	"github.com/matheus3301/convo/internal/status"
)

// MessageCounter reports how many messages the snapshot store holds.
// *store.DB implements it.
type MessageCounter interface {
	MessageCount() (int64, error)
}

// SessionService implements the SessionService gRPC service.
type SessionService struct {
	rpc.UnimplementedSessionServiceServer

	sessionName string
	startedAt   time.Time
	machine     *status.Machine
	hub         *hub.Hub
	sender      *outbox.Sender
	stored      MessageCounter
}

// NewSessionService creates a new session service.
func NewSessionService(sessionName string, machine *status.Machine, h *hub.Hub, sender *outbox.Sender, stored MessageCounter) *SessionService {
	return &SessionService{
		sessionName: sessionName,
		startedAt:   time.Now(),
		machine:     machine,
		hub:         h,
		sender:      sender,
		stored:      stored,
	}
}

func (s *SessionService) GetStatus(context.Context, *rpc.Empty) (*rpc.StatusResponse, error) {
	state, reason, since := s.machine.Snapshot()
	resp := &rpc.StatusResponse{
		Session:     s.sessionName,
		Status:      string(state),
		Reason:      reason,
		SinceUnixMs: since.UnixMilli(),
		UptimeMs:    time.Since(s.startedAt).Milliseconds(),
	}
	if s.hub != nil {
		resp.ConversationCount = s.hub.Len()
		resp.TotalUnread = s.hub.TotalUnread()
		resp.OpenConversation = s.hub.OpenID()
	}
	if s.stored != nil {
		n, err := s.stored.MessageCount()
		if err != nil {
			return nil, toStatus("count stored messages", err)
		}
		resp.StoredMessages = n
	}
	if s.sender != nil {
		st := s.sender.Stats()
		resp.Outbox = rpc.OutboxStats{
			Pending:    s.sender.Pending(),
			Dispatched: st.Dispatched,
			Failed:     st.Failed,
			Dropped:    st.Dropped,
		}
	}
	return resp, nil
}
