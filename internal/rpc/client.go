package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client holds typed clients for every daemon service on one connection.
type Client struct {
	conn         *grpc.ClientConn
	Conversation *ConversationClient
	Thread       *ThreadClient
	Session      *SessionClient
}

// Dial connects to a daemon's Unix domain socket. The connection is lazy;
// the first call fails if nothing listens.
func Dial(socketPath string) (*Client, error) {
	conn, err := grpc.NewClient(
		"unix://"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("dial daemon: %w", err)
	}
	return NewClient(conn), nil
}

// NewClient wraps an existing connection.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{
		conn:         conn,
		Conversation: &ConversationClient{cc: conn},
		Thread:       &ThreadClient{cc: conn},
		Session:      &SessionClient{cc: conn},
	}
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, service, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, "/"+service+"/"+method, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// ConversationClient calls ConversationService.
type ConversationClient struct {
	cc grpc.ClientConnInterface
}

func (c *ConversationClient) ListConversations(ctx context.Context, in *ListConversationsRequest, opts ...grpc.CallOption) (*ListConversationsResponse, error) {
	return invoke[ListConversationsResponse](ctx, c.cc, ConversationServiceName, "ListConversations", in, opts)
}

func (c *ConversationClient) TotalUnread(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*TotalUnreadResponse, error) {
	return invoke[TotalUnreadResponse](ctx, c.cc, ConversationServiceName, "TotalUnread", in, opts)
}

func (c *ConversationClient) TogglePin(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, ConversationServiceName, "TogglePin", in, opts)
}

func (c *ConversationClient) DeleteConversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, ConversationServiceName, "DeleteConversation", in, opts)
}

func (c *ConversationClient) MarkRead(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, ConversationServiceName, "MarkRead", in, opts)
}

func (c *ConversationClient) Actions(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ActionsResponse, error) {
	return invoke[ActionsResponse](ctx, c.cc, ConversationServiceName, "Actions", in, opts)
}

func (c *ConversationClient) Dispatch(ctx context.Context, in *DispatchRequest, opts ...grpc.CallOption) (*DispatchResponse, error) {
	return invoke[DispatchResponse](ctx, c.cc, ConversationServiceName, "Dispatch", in, opts)
}

func (c *ConversationClient) Deliver(ctx context.Context, in *DeliverRequest, opts ...grpc.CallOption) (*DeliverResponse, error) {
	return invoke[DeliverResponse](ctx, c.cc, ConversationServiceName, "Deliver", in, opts)
}

// Watch streams bus events until ctx is cancelled.
func (c *ConversationClient) Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[EventEnvelope], error) {
	stream, err := c.cc.NewStream(ctx, &ConversationServiceDesc.Streams[0], "/"+ConversationServiceName+"/Watch", withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[WatchRequest, EventEnvelope]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// ThreadClient calls ThreadService.
type ThreadClient struct {
	cc grpc.ClientConnInterface
}

func (c *ThreadClient) OpenThread(ctx context.Context, in *OpenThreadRequest, opts ...grpc.CallOption) (*ThreadResponse, error) {
	return invoke[ThreadResponse](ctx, c.cc, ThreadServiceName, "OpenThread", in, opts)
}

func (c *ThreadClient) CloseThread(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, ThreadServiceName, "CloseThread", in, opts)
}

func (c *ThreadClient) ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ThreadResponse, error) {
	return invoke[ThreadResponse](ctx, c.cc, ThreadServiceName, "ListMessages", in, opts)
}

func (c *ThreadClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error) {
	return invoke[SendMessageResponse](ctx, c.cc, ThreadServiceName, "SendMessage", in, opts)
}

func (c *ThreadClient) DeleteMessage(ctx context.Context, in *DeleteMessageRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, ThreadServiceName, "DeleteMessage", in, opts)
}

// SessionClient calls SessionService.
type SessionClient struct {
	cc grpc.ClientConnInterface
}

func (c *SessionClient) GetStatus(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, SessionServiceName, "GetStatus", in, opts)
}
