package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/convo/internal/bus"
	"github.com/matheus3301/convo/internal/chat"
	"github.com/matheus3301/convo/internal/convlist"
	"github.com/matheus3301/convo/internal/hub"
	"github.com/matheus3301/convo/internal/rpc"
	"github.com/matheus3301/convo/internal/sync"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

// Ingester applies inbound messages. *sync.Engine implements it.
type Ingester interface {
	Ingest(in sync.Inbound) (chat.Message, error)
}

// ConversationService implements the ConversationService gRPC service.
type ConversationService struct {
	rpc.UnimplementedConversationServiceServer

	hub         *hub.Hub
	inbound     Ingester
	bus         *bus.Bus
	sessionName string
	logger      *zap.Logger
}

// NewConversationService creates a conversation service backed by the hub.
func NewConversationService(h *hub.Hub, in Ingester, b *bus.Bus, sessionName string, logger *zap.Logger) *ConversationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationService{hub: h, inbound: in, bus: b, sessionName: sessionName, logger: logger}
}

func (s *ConversationService) ListConversations(_ context.Context, req *rpc.ListConversationsRequest) (*rpc.ListConversationsResponse, error) {
	var tag convlist.Tag
	if req.Tag != "" {
		var err error
		if tag, err = convlist.ParseTag(req.Tag); err != nil {
			return nil, grpcstatus.Error(codes.InvalidArgument, err.Error())
		}
	}
	snap := s.hub.Snapshot(req.Filter, tag)
	return &rpc.ListConversationsResponse{
		Pinned:      conversationsToWire(snap.View.Pinned),
		Others:      conversationsToWire(snap.View.Others),
		Tag:         string(snap.Tag),
		TotalUnread: snap.TotalUnread,
	}, nil
}

func (s *ConversationService) TotalUnread(context.Context, *rpc.Empty) (*rpc.TotalUnreadResponse, error) {
	return &rpc.TotalUnreadResponse{TotalUnread: s.hub.TotalUnread()}, nil
}

func (s *ConversationService) TogglePin(_ context.Context, req *rpc.ConversationRequest) (*rpc.ConversationResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	c, err := s.hub.TogglePin(req.ID)
	if err != nil {
		return nil, toStatus("toggle pin", err)
	}
	return &rpc.ConversationResponse{Conversation: conversationToWire(c)}, nil
}

func (s *ConversationService) DeleteConversation(_ context.Context, req *rpc.ConversationRequest) (*rpc.Empty, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	if err := s.hub.Delete(req.ID); err != nil {
		return nil, toStatus("delete conversation", err)
	}
	return &rpc.Empty{}, nil
}

func (s *ConversationService) MarkRead(_ context.Context, req *rpc.ConversationRequest) (*rpc.ConversationResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	c, err := s.hub.MarkRead(req.ID)
	if err != nil {
		return nil, toStatus("mark read", err)
	}
	return &rpc.ConversationResponse{Conversation: conversationToWire(c)}, nil
}

func (s *ConversationService) Actions(_ context.Context, req *rpc.ConversationRequest) (*rpc.ActionsResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	intents, err := s.hub.ActionsFor(req.ID)
	if err != nil {
		return nil, toStatus("actions", err)
	}
	resp := &rpc.ActionsResponse{}
	for _, in := range intents {
		resp.Actions = append(resp.Actions, intentToWire(in))
	}
	return resp, nil
}

func (s *ConversationService) Dispatch(_ context.Context, req *rpc.DispatchRequest) (*rpc.DispatchResponse, error) {
	in, err := intentFromWire(req)
	if err != nil {
		return nil, err
	}
	if err := s.hub.Dispatch(in); err != nil {
		return nil, toStatus("dispatch "+req.Intent, err)
	}
	return &rpc.DispatchResponse{SelectedTag: string(s.hub.SelectedTag())}, nil
}

func (s *ConversationService) Deliver(_ context.Context, req *rpc.DeliverRequest) (*rpc.DeliverResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	in := sync.Inbound{ConversationID: req.ID, Text: req.Text}
	if req.OccurredAtUnixMs != 0 {
		in.OccurredAt = time.UnixMilli(req.OccurredAtUnixMs)
	}
	m, err := s.inbound.Ingest(in)
	resp := &rpc.DeliverResponse{}
	if err != nil {
		if !chat.IsAdvisory(err) {
			return nil, toStatus("deliver", err)
		}
		resp.Warning = err.Error()
	}
	resp.Message = messageToWire(s.hub, m)
	return resp, nil
}

// Watch streams bus events whose kind starts with one of the requested
// prefixes until the client goes away.
func (s *ConversationService) Watch(req *rpc.WatchRequest, stream grpc.ServerStreamingServer[rpc.EventEnvelope]) error {
	ch, unsub := s.bus.SubscribeAny(req.Prefixes, 256)
	defer unsub()

	for {
		select {
		case evt := <-ch:
			if err := stream.Send(&rpc.EventEnvelope{
				EventID:          uuid.New().String(),
				Session:          s.sessionName,
				OccurredAtUnixMs: evt.Timestamp.UnixMilli(),
				Kind:             evt.Kind,
				ConversationID:   evt.ConversationID,
			}); err != nil {
				return err
			}
		case <-stream.Context().Done():
			return nil
		}
	}
}
