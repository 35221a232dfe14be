package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnimplementedConversationServiceServer answers every call with
// codes.Unimplemented. Embed it to stay compatible with new methods.
type UnimplementedConversationServiceServer struct{}

func (UnimplementedConversationServiceServer) ListConversations(context.Context, *ListConversationsRequest) (*ListConversationsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListConversations not implemented")
}
func (UnimplementedConversationServiceServer) TotalUnread(context.Context, *Empty) (*TotalUnreadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method TotalUnread not implemented")
}
func (UnimplementedConversationServiceServer) TogglePin(context.Context, *ConversationRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method TogglePin not implemented")
}
func (UnimplementedConversationServiceServer) DeleteConversation(context.Context, *ConversationRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteConversation not implemented")
}
func (UnimplementedConversationServiceServer) MarkRead(context.Context, *ConversationRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MarkRead not implemented")
}
func (UnimplementedConversationServiceServer) Actions(context.Context, *ConversationRequest) (*ActionsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Actions not implemented")
}
func (UnimplementedConversationServiceServer) Dispatch(context.Context, *DispatchRequest) (*DispatchResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Dispatch not implemented")
}
func (UnimplementedConversationServiceServer) Deliver(context.Context, *DeliverRequest) (*DeliverResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Deliver not implemented")
}
func (UnimplementedConversationServiceServer) Watch(*WatchRequest, grpc.ServerStreamingServer[EventEnvelope]) error {
	return status.Error(codes.Unimplemented, "method Watch not implemented")
}

// UnimplementedThreadServiceServer answers every call with codes.Unimplemented.
type UnimplementedThreadServiceServer struct{}

func (UnimplementedThreadServiceServer) OpenThread(context.Context, *OpenThreadRequest) (*ThreadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method OpenThread not implemented")
}
func (UnimplementedThreadServiceServer) CloseThread(context.Context, *Empty) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method CloseThread not implemented")
}
func (UnimplementedThreadServiceServer) ListMessages(context.Context, *ListMessagesRequest) (*ThreadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMessages not implemented")
}
func (UnimplementedThreadServiceServer) SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SendMessage not implemented")
}
func (UnimplementedThreadServiceServer) DeleteMessage(context.Context, *DeleteMessageRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteMessage not implemented")
}

// UnimplementedSessionServiceServer answers every call with codes.Unimplemented.
type UnimplementedSessionServiceServer struct{}

func (UnimplementedSessionServiceServer) GetStatus(context.Context, *Empty) (*StatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStatus not implemented")
}
