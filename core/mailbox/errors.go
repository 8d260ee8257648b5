package mailbox

import (
	"errors"
	"fmt"
)

var (
	// Queue errors
	ErrMailboxClosed = errors.New("mailbox closed")

	// Reply errors
	ErrNoReply             = errors.New("dispatcher stopped without reply")
	ErrReplyClosed         = errors.New("reply already received")
	ErrReplyDeliveryFailed = errors.New("reply receiver discarded")
)

// EnqueueError is returned by [Handle.Emit] and [Handle.EmitResponseless]
// when the event could not be enqueued. The event never reached the handler.
type EnqueueError struct {
	MailboxID string
	Err       error
}

func (e *EnqueueError) Error() string {
	return fmt.Sprintf("enqueue to mailbox %s: %s", e.MailboxID, e.Err)
}

func (e *EnqueueError) Unwrap() error { return e.Err }
