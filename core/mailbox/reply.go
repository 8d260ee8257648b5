package mailbox

import (
	"context"
	"sync/atomic"
)

// Reply is the receive end of a single-use reply channel created by
// [Handle.Emit]. It yields exactly one response once the dispatcher has
// handled the event and reports closed afterwards.
type Reply[R any] struct {
	ch chan R

	settled   atomic.Bool
	delivered atomic.Bool
	discarded atomic.Bool

	// responseless marks replies created by EmitResponseless.
	responseless bool
}

func newReply[R any]() *Reply[R] {
	return &Reply[R]{ch: make(chan R, 1)}
}

func newDiscardedReply[R any]() *Reply[R] {
	r := newReply[R]()
	r.responseless = true
	r.discarded.Store(true)
	return r
}

// Receive waits for the response. The first successful call returns the
// value, later calls return [ErrReplyClosed]. If the dispatcher stopped before
// handling the event it returns [ErrNoReply].
//
// Cancelling ctx only stops waiting; the handler still runs to completion.
func (r *Reply[R]) Receive(ctx context.Context) (R, error) {
	var zero R
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case v, ok := <-r.ch:
		if ok {
			return v, nil
		}
		if r.delivered.Load() {
			return zero, ErrReplyClosed
		}
		return zero, ErrNoReply
	}
}

// C returns the underlying channel. It carries at most one value and is
// closed afterwards, or without a value if no response will come.
func (r *Reply[R]) C() <-chan R { return r.ch }

// Discard signals that the response is no longer wanted. The handler is not
// cancelled; its result is dropped and counted as an undeliverable reply.
func (r *Reply[R]) Discard() { r.discarded.Store(true) }

// deliver hands res to the receiver. It reports false if the receiver
// discarded the reply. Only the dispatcher calls deliver, at most once.
func (r *Reply[R]) deliver(res R) bool {
	if r.settled.Swap(true) {
		return false
	}
	defer close(r.ch)
	if r.discarded.Load() {
		return false
	}
	r.delivered.Store(true)
	r.ch <- res
	return true
}

// abandon closes the reply without a value.
func (r *Reply[R]) abandon() {
	if r.settled.Swap(true) {
		return
	}
	close(r.ch)
}
