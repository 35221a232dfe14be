package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ConversationServiceName = "convo.v1.ConversationService"
	ThreadServiceName       = "convo.v1.ThreadService"
	SessionServiceName      = "convo.v1.SessionService"
)

// ConversationServiceServer serves the conversation list.
type ConversationServiceServer interface {
	ListConversations(context.Context, *ListConversationsRequest) (*ListConversationsResponse, error)
	TotalUnread(context.Context, *Empty) (*TotalUnreadResponse, error)
	TogglePin(context.Context, *ConversationRequest) (*ConversationResponse, error)
	DeleteConversation(context.Context, *ConversationRequest) (*Empty, error)
	MarkRead(context.Context, *ConversationRequest) (*ConversationResponse, error)
	Actions(context.Context, *ConversationRequest) (*ActionsResponse, error)
	Dispatch(context.Context, *DispatchRequest) (*DispatchResponse, error)
	Deliver(context.Context, *DeliverRequest) (*DeliverResponse, error)
	Watch(*WatchRequest, grpc.ServerStreamingServer[EventEnvelope]) error
}

// ThreadServiceServer serves per-conversation threads.
type ThreadServiceServer interface {
	OpenThread(context.Context, *OpenThreadRequest) (*ThreadResponse, error)
	CloseThread(context.Context, *Empty) (*Empty, error)
	ListMessages(context.Context, *ListMessagesRequest) (*ThreadResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error)
	DeleteMessage(context.Context, *DeleteMessageRequest) (*Empty, error)
}

// SessionServiceServer reports daemon state.
type SessionServiceServer interface {
	GetStatus(context.Context, *Empty) (*StatusResponse, error)
}

// unary adapts a typed method to a grpc.MethodHandler.
func unary[S, Req, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ConversationServiceDesc = grpc.ServiceDesc{
	ServiceName: ConversationServiceName,
	HandlerType: (*ConversationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ConversationServiceName, "ListConversations", ConversationServiceServer.ListConversations),
		unary(ConversationServiceName, "TotalUnread", ConversationServiceServer.TotalUnread),
		unary(ConversationServiceName, "TogglePin", ConversationServiceServer.TogglePin),
		unary(ConversationServiceName, "DeleteConversation", ConversationServiceServer.DeleteConversation),
		unary(ConversationServiceName, "MarkRead", ConversationServiceServer.MarkRead),
		unary(ConversationServiceName, "Actions", ConversationServiceServer.Actions),
		unary(ConversationServiceName, "Dispatch", ConversationServiceServer.Dispatch),
		unary(ConversationServiceName, "Deliver", ConversationServiceServer.Deliver),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			ServerStreams: true,
			Handler: func(srv any, stream grpc.ServerStream) error {
				in := new(WatchRequest)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(ConversationServiceServer).Watch(in, &grpc.GenericServerStream[WatchRequest, EventEnvelope]{ServerStream: stream})
			},
		},
	},
	Metadata: "convo/v1/convo.json",
}

var ThreadServiceDesc = grpc.ServiceDesc{
	ServiceName: ThreadServiceName,
	HandlerType: (*ThreadServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ThreadServiceName, "OpenThread", ThreadServiceServer.OpenThread),
		unary(ThreadServiceName, "CloseThread", ThreadServiceServer.CloseThread),
		unary(ThreadServiceName, "ListMessages", ThreadServiceServer.ListMessages),
		unary(ThreadServiceName, "SendMessage", ThreadServiceServer.SendMessage),
		unary(ThreadServiceName, "DeleteMessage", ThreadServiceServer.DeleteMessage),
	},
	Metadata: "convo/v1/convo.json",
}

var SessionServiceDesc = grpc.ServiceDesc{
	ServiceName: SessionServiceName,
	HandlerType: (*SessionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(SessionServiceName, "GetStatus", SessionServiceServer.GetStatus),
	},
	Metadata: "convo/v1/convo.json",
}

func RegisterConversationServiceServer(s grpc.ServiceRegistrar, srv ConversationServiceServer) {
	s.RegisterService(&ConversationServiceDesc, srv)
}

func RegisterThreadServiceServer(s grpc.ServiceRegistrar, srv ThreadServiceServer) {
	s.RegisterService(&ThreadServiceDesc, srv)
}

func RegisterSessionServiceServer(s grpc.ServiceRegistrar, srv SessionServiceServer) {
	s.RegisterService(&SessionServiceDesc, srv)
}
