package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matheus3301/convo/internal/bus"
	"github.com/matheus3301/convo/internal/chat"
	"github.com/matheus3301/convo/internal/hub"
	"github.com/matheus3301/convo/internal/outbox"
	"github.com/matheus3301/convo/internal/rpc"
	"github.com/matheus3301/convo/internal/status"
	"github.com/matheus3301/convo/internal/sync"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

var t0 = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

type fixture struct {
	hub    *hub.Hub
	bus    *bus.Bus
	convs  *ConversationService
	thread *ThreadService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := bus.New()
	h, err := hub.New(hub.Params{
		Conversations: []chat.Conversation{
			{ID: "a", DisplayName: "Alice", LastMessagePreview: "hi :wave:", LastUpdatedAt: t0, UnreadCount: 2, Category: chat.Direct},
			{ID: "g", DisplayName: "Group Chat 1", LastUpdatedAt: t0.Add(-time.Hour), Pinned: true, Category: chat.Group},
			{ID: "b", DisplayName: "Bob", LastUpdatedAt: t0.Add(-2 * time.Hour), UnreadCount: 1, Category: chat.Direct},
		},
		History: map[string][]chat.Message{
			"a": {{ID: 1, Text: "hi :wave:", Timestamp: t0, Status: chat.StatusSent}},
		},
		Now:      func() time.Time { return t0.Add(time.Minute) },
		Location: time.UTC,
		Bus:      b,
	})
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{
		hub:    h,
		bus:    b,
		convs:  NewConversationService(h, sync.NewEngine(h, b, nil), b, "test", nil),
		thread: NewThreadService(h),
	}
}

func wantCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	if got := grpcstatus.Code(err); got != code {
		t.Errorf("code = %v (%v), want %v", got, err, code)
	}
}

func TestListConversations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.convs.ListConversations(ctx, &rpc.ListConversationsRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Pinned) != 1 || resp.Pinned[0].ID != "g" {
		t.Errorf("Pinned = %+v", resp.Pinned)
	}
	if len(resp.Others) != 2 || resp.Others[0].ID != "a" || resp.Others[1].ID != "b" {
		t.Errorf("Others = %+v", resp.Others)
	}
	if resp.Others[0].Preview != "hi 👋" {
		t.Errorf("Preview = %q, want enriched", resp.Others[0].Preview)
	}
	if resp.TotalUnread != 3 || resp.Tag != "all" {
		t.Errorf("TotalUnread = %d, Tag = %q", resp.TotalUnread, resp.Tag)
	}

	resp, err = f.convs.ListConversations(ctx, &rpc.ListConversationsRequest{Filter: "GROUP", Tag: "group"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Pinned)+len(resp.Others) != 1 {
		t.Errorf("filtered = %+v / %+v", resp.Pinned, resp.Others)
	}

	_, err = f.convs.ListConversations(ctx, &rpc.ListConversationsRequest{Tag: "family"})
	wantCode(t, err, codes.InvalidArgument)
}

func TestDispatchAndActions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acts, err := f.convs.Actions(ctx, &rpc.ConversationRequest{ID: "g"})
	if err != nil {
		t.Fatal(err)
	}
	if len(acts.Actions) != 3 || acts.Actions[0].Intent != rpc.IntentUnpin || acts.Actions[2].Intent != rpc.IntentCancel {
		t.Errorf("Actions(g) = %+v", acts.Actions)
	}

	resp, err := f.convs.Dispatch(ctx, &rpc.DispatchRequest{Intent: rpc.IntentSelectTag, Tag: "direct"})
	if err != nil || resp.SelectedTag != "direct" {
		t.Fatalf("Dispatch(select_tag) = %+v, %v", resp, err)
	}
	list, _ := f.convs.ListConversations(ctx, &rpc.ListConversationsRequest{})
	if len(list.Pinned) != 0 || len(list.Others) != 2 || list.Tag != "direct" {
		t.Errorf("selected tag not applied: %q %+v / %+v", list.Tag, list.Pinned, list.Others)
	}

	read, err := f.convs.MarkRead(ctx, &rpc.ConversationRequest{ID: "a"})
	if err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if read.Conversation.ID != "a" || read.Conversation.UnreadCount != 0 {
		t.Errorf("MarkRead() = %+v", read.Conversation)
	}

	if _, err := f.convs.Dispatch(ctx, &rpc.DispatchRequest{Intent: rpc.IntentDelete, ID: "b"}); err != nil {
		t.Fatal(err)
	}
	_, err = f.convs.Dispatch(ctx, &rpc.DispatchRequest{Intent: rpc.IntentPin, ID: "b"})
	wantCode(t, err, codes.NotFound)
	_, err = f.convs.Dispatch(ctx, &rpc.DispatchRequest{Intent: "archive", ID: "a"})
	wantCode(t, err, codes.InvalidArgument)
	_, err = f.convs.Dispatch(ctx, &rpc.DispatchRequest{Intent: rpc.IntentSelectTag, Tag: "bogus"})
	wantCode(t, err, codes.InvalidArgument)
}

func TestErrorMapping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.convs.TogglePin(ctx, &rpc.ConversationRequest{})
	wantCode(t, err, codes.InvalidArgument)
	_, err = f.convs.MarkRead(ctx, &rpc.ConversationRequest{ID: "zzz"})
	wantCode(t, err, codes.NotFound)
	_, err = f.thread.SendMessage(ctx, &rpc.SendMessageRequest{ID: "a", Text: "   "})
	wantCode(t, err, codes.InvalidArgument)
	_, err = f.thread.DeleteMessage(ctx, &rpc.DeleteMessageRequest{ID: "a", MessageID: 99})
	wantCode(t, err, codes.NotFound)
}

func TestDeliverReportsOutOfOrderAsWarning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.convs.Deliver(ctx, &rpc.DeliverRequest{ID: "a", Text: "late", OccurredAtUnixMs: t0.Add(-time.Hour).UnixMilli()})
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if resp.Warning == "" || resp.Message.Text != "late" {
		t.Errorf("Deliver() = %+v", resp)
	}
	c, _ := f.hub.Conversation("a")
	if !c.LastUpdatedAt.Equal(t0) || c.UnreadCount != 3 {
		t.Errorf("conversation = %+v", c)
	}

	resp, err = f.convs.Deliver(ctx, &rpc.DeliverRequest{ID: "a", Text: "now"})
	if err != nil || resp.Warning != "" {
		t.Errorf("Deliver(now) = %+v, %v", resp, err)
	}
	_, err = f.convs.Deliver(ctx, &rpc.DeliverRequest{ID: "nope", Text: "x"})
	wantCode(t, err, codes.NotFound)
}

func TestThreadFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	open, err := f.thread.OpenThread(ctx, &rpc.OpenThreadRequest{ID: "a", NewestFirst: true})
	if err != nil {
		t.Fatal(err)
	}
	if open.Conversation.UnreadCount != 0 || len(open.Messages) != 1 {
		t.Errorf("OpenThread() = %+v", open)
	}
	if f.hub.OpenID() != "a" {
		t.Errorf("OpenID() = %q", f.hub.OpenID())
	}

	sent, err := f.thread.SendMessage(ctx, &rpc.SendMessageRequest{ID: "a", Text: "see you :smile:"})
	if err != nil {
		t.Fatal(err)
	}
	if sent.Message.DisplayText != "see you 😊" || sent.Message.Time != "2:01 PM" || !sent.Message.FromSelf {
		t.Errorf("SendMessage() = %+v", sent.Message)
	}

	list, err := f.thread.ListMessages(ctx, &rpc.ListMessagesRequest{ID: "a", NewestFirst: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Messages) != 2 || list.Messages[0].ID != sent.Message.ID {
		t.Errorf("ListMessages(newest) = %+v", list.Messages)
	}

	if _, err := f.thread.CloseThread(ctx, &rpc.Empty{}); err != nil {
		t.Fatal(err)
	}
	if f.hub.OpenID() != "" {
		t.Error("CloseThread() should clear the open conversation")
	}
}

func TestGetStatus(t *testing.T) {
	f := newFixture(t)
	m := status.NewMachine(nil)
	if err := m.TransitionWithReason(status.Seeding, "loading"); err != nil {
		t.Fatal(err)
	}
	svc := NewSessionService("test", m, f.hub, outbox.NewSender(outbox.Params{Transport: outbox.LogTransport{}, Buffer: 4}), fixedCount(7))

	resp, err := svc.GetStatus(context.Background(), &rpc.Empty{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Session != "test" || resp.Status != "SEEDING" || resp.Reason != "loading" {
		t.Errorf("GetStatus() = %+v", resp)
	}
	if resp.ConversationCount != 3 || resp.TotalUnread != 3 || resp.StoredMessages != 7 {
		t.Errorf("counts = %d/%d/%d", resp.ConversationCount, resp.TotalUnread, resp.StoredMessages)
	}

	broken := NewSessionService("test", m, f.hub, nil, failingCount{})
	_, err = broken.GetStatus(context.Background(), &rpc.Empty{})
	wantCode(t, err, codes.Internal)
}

type fixedCount int64

func (n fixedCount) MessageCount() (int64, error) { return int64(n), nil }

type failingCount struct{}

func (failingCount) MessageCount() (int64, error) { return 0, errors.New("database is closed") }
