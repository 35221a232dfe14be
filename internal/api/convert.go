// Package api implements the daemon's gRPC services on top of the hub.
package api

import (
	"errors"

	"github.com/matheus3301/convo/internal/chat"
	"github.com/matheus3301/convo/internal/convlist"
	"github.com/matheus3301/convo/internal/hub"
	"github.com/matheus3301/convo/internal/rpc"
	"github.com/matheus3301/convo/internal/thread"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

func conversationToWire(c chat.Conversation) *rpc.Conversation {
	return &rpc.Conversation{
		ID:                c.ID,
		DisplayName:       c.DisplayName,
		AvatarRef:         c.AvatarRef,
		Preview:           convlist.PreviewText(c),
		LastUpdatedUnixMs: unixMs(c),
		UnreadCount:       c.UnreadCount,
		Pinned:            c.Pinned,
		Category:          string(c.Category),
	}
}

func unixMs(c chat.Conversation) int64 {
	if c.LastUpdatedAt.IsZero() {
		return 0
	}
	return c.LastUpdatedAt.UnixMilli()
}

func conversationsToWire(cs []chat.Conversation) []*rpc.Conversation {
	out := make([]*rpc.Conversation, 0, len(cs))
	for _, c := range cs {
		out = append(out, conversationToWire(c))
	}
	return out
}

func messageToWire(h *hub.Hub, m chat.Message) *rpc.Message {
	return &rpc.Message{
		ID:              m.ID,
		Text:            m.Text,
		DisplayText:     thread.DisplayText(m),
		FromSelf:        m.FromSelf,
		TimestampUnixMs: m.Timestamp.UnixMilli(),
		Time:            h.FormatTimestamp(m),
		Status:          string(m.Status),
	}
}

func messagesToWire(h *hub.Hub, ms []chat.Message) []*rpc.Message {
	out := make([]*rpc.Message, 0, len(ms))
	for _, m := range ms {
		out = append(out, messageToWire(h, m))
	}
	return out
}

func intentToWire(in convlist.Intent) rpc.Action {
	switch in.Kind {
	case convlist.IntentPin:
		return rpc.Action{Intent: rpc.IntentPin, Label: "Pin"}
	case convlist.IntentUnpin:
		return rpc.Action{Intent: rpc.IntentUnpin, Label: "Unpin"}
	case convlist.IntentDelete:
		return rpc.Action{Intent: rpc.IntentDelete, Label: "Delete"}
	default:
		return rpc.Action{Intent: rpc.IntentCancel, Label: "Cancel"}
	}
}

func intentFromWire(req *rpc.DispatchRequest) (convlist.Intent, error) {
	switch req.Intent {
	case rpc.IntentPin:
		return convlist.Pin(req.ID), nil
	case rpc.IntentUnpin:
		return convlist.Unpin(req.ID), nil
	case rpc.IntentDelete:
		return convlist.Delete(req.ID), nil
	case rpc.IntentCancel:
		return convlist.Cancel(), nil
	case rpc.IntentSelectTag:
		tag, err := convlist.ParseTag(req.Tag)
		if err != nil {
			return convlist.Intent{}, grpcstatus.Error(codes.InvalidArgument, err.Error())
		}
		return convlist.SelectTag(tag), nil
	default:
		return convlist.Intent{}, grpcstatus.Errorf(codes.InvalidArgument, "unknown intent %q", req.Intent)
	}
}

// toStatus maps domain errors onto gRPC codes.
func toStatus(op string, err error) error {
	switch {
	case errors.Is(err, chat.ErrNotFound):
		return grpcstatus.Errorf(codes.NotFound, "%s: %v", op, err)
	case errors.Is(err, chat.ErrEmptyInput):
		return grpcstatus.Errorf(codes.InvalidArgument, "%s: %v", op, err)
	default:
		return grpcstatus.Errorf(codes.Internal, "%s: %v", op, err)
	}
}

func requireID(id string) error {
	if id == "" {
		return grpcstatus.Error(codes.InvalidArgument, "conversation id required")
	}
	return nil
}
