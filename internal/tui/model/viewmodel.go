package model

import (
	"context"
	"strings"
	"sync"

	"github.com/matheus3301/convo/internal/rpc"
	"github.com/matheus3301/convo/internal/tui/ui"
)

// ViewModel caches daemon state for the views and signals UI refreshes.
type ViewModel struct {
	mu sync.RWMutex

	client   *rpc.Client
	Status   *rpc.StatusResponse
	List     *rpc.ListConversationsResponse
	Thread   *rpc.ThreadResponse
	ActiveID string
	Filter   string
	Flash    *ui.FlashModel

	refreshCh chan struct{}
}

// NewViewModel creates a new view model connected to the daemon client.
func NewViewModel(c *rpc.Client) *ViewModel {
	return &ViewModel{
		client:    c,
		Flash:     ui.NewFlashModel(),
		refreshCh: make(chan struct{}, 1),
	}
}

// RefreshCh returns the channel that signals UI refresh.
func (vm *ViewModel) RefreshCh() <-chan struct{} {
	return vm.refreshCh
}

func (vm *ViewModel) signalRefresh() {
	select {
	case vm.refreshCh <- struct{}{}:
	default:
	}
}

// LoadStatus fetches the session status.
func (vm *ViewModel) LoadStatus(ctx context.Context) error {
	resp, err := vm.client.Session.GetStatus(ctx, &rpc.Empty{})
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Status = resp
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// LoadConversations fetches the list with the current filter and the
// daemon's selected tag.
func (vm *ViewModel) LoadConversations(ctx context.Context) error {
	vm.mu.RLock()
	filter := vm.Filter
	vm.mu.RUnlock()

	resp, err := vm.client.Conversation.ListConversations(ctx, &rpc.ListConversationsRequest{Filter: filter})
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.List = resp
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// SetFilter stores the list filter used by LoadConversations.
func (vm *ViewModel) SetFilter(filter string) {
	vm.mu.Lock()
	vm.Filter = filter
	vm.mu.Unlock()
}

// GetFilter returns the current list filter.
func (vm *ViewModel) GetFilter() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Filter
}

// OpenThread opens a conversation on the daemon and loads its messages
// newest first.
func (vm *ViewModel) OpenThread(ctx context.Context, id string) error {
	resp, err := vm.client.Thread.OpenThread(ctx, &rpc.OpenThreadRequest{ID: id, NewestFirst: true})
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.ActiveID = id
	vm.Thread = resp
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// ReloadThread refreshes the messages of the active conversation.
func (vm *ViewModel) ReloadThread(ctx context.Context) error {
	id := vm.GetActiveID()
	if id == "" {
		return nil
	}
	resp, err := vm.client.Thread.ListMessages(ctx, &rpc.ListMessagesRequest{ID: id, NewestFirst: true})
	if err != nil {
		return err
	}
	vm.mu.Lock()
	if vm.ActiveID == id {
		vm.Thread = resp
	}
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// CloseThread tells the daemon no conversation is open any more.
func (vm *ViewModel) CloseThread(ctx context.Context) error {
	vm.mu.Lock()
	vm.ActiveID = ""
	vm.Thread = nil
	vm.mu.Unlock()
	_, err := vm.client.Thread.CloseThread(ctx, &rpc.Empty{})
	return err
}

// SendText sends a message in the active conversation.
func (vm *ViewModel) SendText(ctx context.Context, text string) error {
	id := vm.GetActiveID()
	if id == "" {
		return nil
	}
	if _, err := vm.client.Thread.SendMessage(ctx, &rpc.SendMessageRequest{ID: id, Text: text}); err != nil {
		return err
	}
	return vm.ReloadThread(ctx)
}

// DeleteMessage removes a message from the active conversation.
func (vm *ViewModel) DeleteMessage(ctx context.Context, msgID int64) error {
	id := vm.GetActiveID()
	if id == "" {
		return nil
	}
	if _, err := vm.client.Thread.DeleteMessage(ctx, &rpc.DeleteMessageRequest{ID: id, MessageID: msgID}); err != nil {
		return err
	}
	return vm.ReloadThread(ctx)
}

// Actions fetches the long-press menu of a conversation.
func (vm *ViewModel) Actions(ctx context.Context, id string) ([]rpc.Action, error) {
	resp, err := vm.client.Conversation.Actions(ctx, &rpc.ConversationRequest{ID: id})
	if err != nil {
		return nil, err
	}
	return resp.Actions, nil
}

// Dispatch applies a list intent and reloads the list.
func (vm *ViewModel) Dispatch(ctx context.Context, intent, id, tag string) error {
	if _, err := vm.client.Conversation.Dispatch(ctx, &rpc.DispatchRequest{Intent: intent, ID: id, Tag: tag}); err != nil {
		return err
	}
	return vm.LoadConversations(ctx)
}

// Watch streams daemon events until ctx is cancelled.
func (vm *ViewModel) Watch(ctx context.Context, fn func(*rpc.EventEnvelope)) error {
	stream, err := vm.client.Conversation.Watch(ctx, &rpc.WatchRequest{})
	if err != nil {
		return err
	}
	for {
		evt, err := stream.Recv()
		if err != nil {
			return err
		}
		fn(evt)
	}
}

// GetList returns a snapshot of the conversation list.
func (vm *ViewModel) GetList() *rpc.ListConversationsResponse {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.List
}

// GetThread returns a snapshot of the open thread.
func (vm *ViewModel) GetThread() *rpc.ThreadResponse {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Thread
}

// GetActiveID returns the id of the open conversation, or "".
func (vm *ViewModel) GetActiveID() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.ActiveID
}

// GetStatus returns a snapshot of the session status.
func (vm *ViewModel) GetStatus() *rpc.StatusResponse {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Status
}

// Find returns a conversation of the cached list by id.
func (vm *ViewModel) Find(id string) *rpc.Conversation {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if vm.List == nil {
		return nil
	}
	for _, group := range [][]*rpc.Conversation{vm.List.Pinned, vm.List.Others} {
		for _, c := range group {
			if c.ID == id {
				return c
			}
		}
	}
	return nil
}

// TogglePin flips the pinned flag of a conversation and reloads the list.
func (vm *ViewModel) TogglePin(ctx context.Context, id string) (*rpc.Conversation, error) {
	resp, err := vm.client.Conversation.TogglePin(ctx, &rpc.ConversationRequest{ID: id})
	if err != nil {
		return nil, err
	}
	return resp.Conversation, vm.LoadConversations(ctx)
}

// MarkRead clears a conversation's unread count and reloads the list.
func (vm *ViewModel) MarkRead(ctx context.Context, id string) error {
	if _, err := vm.client.Conversation.MarkRead(ctx, &rpc.ConversationRequest{ID: id}); err != nil {
		return err
	}
	return vm.LoadConversations(ctx)
}

// FindByName returns the first listed conversation whose name contains
// name, ignoring case.
func (vm *ViewModel) FindByName(name string) *rpc.Conversation {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if vm.List == nil {
		return nil
	}
	name = strings.ToLower(name)
	for _, group := range [][]*rpc.Conversation{vm.List.Pinned, vm.List.Others} {
		for _, c := range group {
			if strings.Contains(strings.ToLower(c.DisplayName), name) {
				return c
			}
		}
	}
	return nil
}
