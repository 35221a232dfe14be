package convlist

import (
	"fmt"

	"github.com/matheus3301/convo/internal/chat"
)

// Tag selects which category of conversations the list shows.
type Tag string

const (
	TagAll    Tag = "all"
	TagDirect Tag = "direct"
	TagGroup  Tag = "group"
)

// Tags lists the selectable tags in display order.
var Tags = []Tag{TagAll, TagDirect, TagGroup}

// ParseTag parses a tag name. The empty string selects TagAll.
func ParseTag(s string) (Tag, error) {
	switch Tag(s) {
	case "", TagAll:
		return TagAll, nil
	case TagDirect, TagGroup:
		return Tag(s), nil
	}
	return "", fmt.Errorf("unknown tag %q: want all, direct or group", s)
}

// Matches reports whether a conversation of category c passes the tag.
func (t Tag) Matches(c chat.Category) bool {
	return t == TagAll || t == "" || string(t) == string(c)
}

// Label is the human-readable tag name.
func (t Tag) Label() string {
	switch t {
	case TagDirect:
		return "Direct"
	case TagGroup:
		return "Group"
	default:
		return "All"
	}
}

// IntentKind enumerates the user actions the list understands.
type IntentKind int

const (
	IntentPin IntentKind = iota + 1
	IntentUnpin
	IntentDelete
	IntentCancel
	IntentSelectTag
)

func (k IntentKind) String() string {
	switch k {
	case IntentPin:
		return "Pin"
	case IntentUnpin:
		return "Unpin"
	case IntentDelete:
		return "Delete"
	case IntentCancel:
		return "Cancel"
	case IntentSelectTag:
		return "SelectTag"
	default:
		return fmt.Sprintf("IntentKind(%d)", int(k))
	}
}

// Intent is a user action on the conversation list. ID is set for Pin, Unpin
// and Delete; Tag is set for SelectTag.
type Intent struct {
	Kind IntentKind
	ID   string
	Tag  Tag
}

func Pin(id string) Intent    { return Intent{Kind: IntentPin, ID: id} }
func Unpin(id string) Intent  { return Intent{Kind: IntentUnpin, ID: id} }
func Delete(id string) Intent { return Intent{Kind: IntentDelete, ID: id} }
func Cancel() Intent          { return Intent{Kind: IntentCancel} }

func SelectTag(t Tag) Intent { return Intent{Kind: IntentSelectTag, Tag: t} }

// Dispatch applies an intent. Pin and Unpin are idempotent; Cancel does
// nothing.
func (e *Engine) Dispatch(in Intent) error {
	switch in.Kind {
	case IntentPin:
		_, err := e.SetPinned(in.ID, true)
		return err
	case IntentUnpin:
		_, err := e.SetPinned(in.ID, false)
		return err
	case IntentDelete:
		return e.Delete(in.ID)
	case IntentCancel:
		return nil
	case IntentSelectTag:
		t, err := ParseTag(string(in.Tag))
		if err != nil {
			return err
		}
		e.selected = t
		return nil
	default:
		return fmt.Errorf("unknown intent %v", in.Kind)
	}
}

// ActionsFor returns the options of the long-press menu for a conversation:
// Pin or Unpin depending on its state, then Delete and Cancel.
func (e *Engine) ActionsFor(id string) ([]Intent, error) {
	c, err := e.lookup(id)
	if err != nil {
		return nil, err
	}
	first := Pin(id)
	if c.Pinned {
		first = Unpin(id)
	}
	return []Intent{first, Delete(id), Cancel()}, nil
}
