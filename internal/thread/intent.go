package thread

import "fmt"

// IntentKind enumerates the user actions on a thread.
type IntentKind int

const (
	IntentDeleteMessage IntentKind = iota + 1
	IntentCancel
)

func (k IntentKind) String() string {
	switch k {
	case IntentDeleteMessage:
		return "DeleteMessage"
	case IntentCancel:
		return "Cancel"
	default:
		return fmt.Sprintf("IntentKind(%d)", int(k))
	}
}

// Intent is a user action on a thread.
type Intent struct {
	Kind      IntentKind
	MessageID int64
}

func DeleteMessage(id int64) Intent { return Intent{Kind: IntentDeleteMessage, MessageID: id} }
func Cancel() Intent                { return Intent{Kind: IntentCancel} }

// Dispatch applies an intent.
func (e *Engine) Dispatch(in Intent) error {
	switch in.Kind {
	case IntentDeleteMessage:
		return e.Delete(in.MessageID)
	case IntentCancel:
		return nil
	default:
		return fmt.Errorf("unknown intent %v", in.Kind)
	}
}
