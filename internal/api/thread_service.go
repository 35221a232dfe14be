package api

import (
	"context"

	"github.com/matheus3301/convo/internal/hub"
	"github.com/matheus3301/convo/internal/rpc"
	"github.com/matheus3301/convo/internal/thread"
)

// ThreadService implements the ThreadService gRPC service.
type ThreadService struct {
	rpc.UnimplementedThreadServiceServer

	hub *hub.Hub
}

// NewThreadService creates a thread service backed by the hub.
func NewThreadService(h *hub.Hub) *ThreadService {
	return &ThreadService{hub: h}
}

func direction(newestFirst bool) thread.Direction {
	if newestFirst {
		return thread.NewestFirst
	}
	return thread.OldestFirst
}

// OpenThread makes a conversation the open one and returns its messages.
func (s *ThreadService) OpenThread(_ context.Context, req *rpc.OpenThreadRequest) (*rpc.ThreadResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	c, err := s.hub.Open(req.ID)
	if err != nil {
		return nil, toStatus("open thread", err)
	}
	msgs, err := s.hub.Thread(req.ID, direction(req.NewestFirst))
	if err != nil {
		return nil, toStatus("open thread", err)
	}
	return &rpc.ThreadResponse{
		Conversation: conversationToWire(c),
		Messages:     messagesToWire(s.hub, msgs),
	}, nil
}

func (s *ThreadService) CloseThread(context.Context, *rpc.Empty) (*rpc.Empty, error) {
	s.hub.Close()
	return &rpc.Empty{}, nil
}

// ListMessages returns a thread without changing which conversation is open.
func (s *ThreadService) ListMessages(_ context.Context, req *rpc.ListMessagesRequest) (*rpc.ThreadResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	msgs, err := s.hub.Thread(req.ID, direction(req.NewestFirst))
	if err != nil {
		return nil, toStatus("list messages", err)
	}
	c, err := s.hub.Conversation(req.ID)
	if err != nil {
		return nil, toStatus("list messages", err)
	}
	return &rpc.ThreadResponse{
		Conversation: conversationToWire(c),
		Messages:     messagesToWire(s.hub, msgs),
	}, nil
}

func (s *ThreadService) SendMessage(_ context.Context, req *rpc.SendMessageRequest) (*rpc.SendMessageResponse, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	m, err := s.hub.Send(req.ID, req.Text)
	if err != nil {
		return nil, toStatus("send message", err)
	}
	return &rpc.SendMessageResponse{Message: messageToWire(s.hub, m)}, nil
}

func (s *ThreadService) DeleteMessage(_ context.Context, req *rpc.DeleteMessageRequest) (*rpc.Empty, error) {
	if err := requireID(req.ID); err != nil {
		return nil, err
	}
	if err := s.hub.DeleteMessage(req.ID, req.MessageID); err != nil {
		return nil, toStatus("delete message", err)
	}
	return &rpc.Empty{}, nil
}
