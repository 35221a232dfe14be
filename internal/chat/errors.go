package chat

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors returned by the engines.
var (
	ErrNotFound   = errors.New("not found")
	ErrEmptyInput = errors.New("empty input")
	ErrOutOfOrder = errors.New("out of order update")
)

// OutOfOrderError is an advisory returned when an inbound message is older
// than the conversation's last activity. The update it accompanies has
// already been applied, except that LastUpdatedAt was kept at Current.
type OutOfOrderError struct {
	ConversationID string
	Current        time.Time
	Got            time.Time
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("conversation %q: inbound timestamp %s is older than %s",
		e.ConversationID, e.Got.Format(time.RFC3339), e.Current.Format(time.RFC3339))
}

// Is lets errors.Is match ErrOutOfOrder.
func (e *OutOfOrderError) Is(target error) bool {
	return target == ErrOutOfOrder
}

// IsAdvisory reports whether err is a non-fatal advisory that callers should
// log rather than surface as a failure.
func IsAdvisory(err error) bool {
	return errors.Is(err, ErrOutOfOrder)
}
