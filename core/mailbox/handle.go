package mailbox

import (
	"context"
	"runtime"
	"sync/atomic"
)

// Handle is the producer side of a mailbox. Handles are safe for concurrent
// use. Each handle holds one reference on the mailbox; the queue closes when
// the last handle is closed or garbage collected.
type Handle[T, R any] struct {
	ref     *handleRef[T, R]
	cleanup runtime.Cleanup
}

type handleRef[T, R any] struct {
	m        *mailbox[T, R]
	refs     *atomic.Int64
	released atomic.Bool
}

func (r *handleRef[T, R]) release() {
	if r.released.Swap(true) {
		return
	}
	if r.refs.Add(-1) == 0 {
		r.m.queue.close()
	}
}

func newHandle[T, R any](m *mailbox[T, R]) *Handle[T, R] {
	refs := new(atomic.Int64)
	refs.Store(1)
	return track(&handleRef[T, R]{m: m, refs: refs})
}

func track[T, R any](ref *handleRef[T, R]) *Handle[T, R] {
	h := &Handle[T, R]{ref: ref}
	h.cleanup = runtime.AddCleanup(h, func(r *handleRef[T, R]) { r.release() }, ref)
	return h
}

// ID returns the mailbox ID.
func (h *Handle[T, R]) ID() string { return h.ref.m.id }

// Len returns the number of events waiting in the queue.
func (h *Handle[T, R]) Len() int { return h.ref.m.queue.len() }

// Done is closed when the dispatcher exits.
func (h *Handle[T, R]) Done() <-chan struct{} { return h.ref.m.done }

// Clone returns a new handle to the same mailbox. Cloning a closed handle
// returns a closed handle.
func (h *Handle[T, R]) Clone() *Handle[T, R] {
	ref := &handleRef[T, R]{m: h.ref.m, refs: h.ref.refs}
	if h.ref.released.Load() {
		ref.released.Store(true)
		return &Handle[T, R]{ref: ref}
	}
	ref.refs.Add(1)
	return track(ref)
}

// Close releases this handle's reference. It is idempotent. Events emitted
// through other handles are unaffected.
func (h *Handle[T, R]) Close() {
	h.cleanup.Stop()
	h.ref.release()
}

// Emit enqueues event and returns the reply it will be answered on. It does
// not wait for the event to be handled.
//
// If ctx is already done the event is not enqueued and ctx.Err() is returned.
// If the mailbox is closed an [*EnqueueError] wrapping [ErrMailboxClosed] is
// returned.
func (h *Handle[T, R]) Emit(ctx context.Context, event T) (*Reply[R], error) {
	reply := newReply[R]()
	if err := h.enqueue(ctx, envelope[T, R]{event: event, reply: reply}); err != nil {
		return nil, err
	}
	return reply, nil
}

// EmitResponseless enqueues event without a receiver for the response. The
// handler still runs; its response is dropped. A nil error only means the
// event was enqueued.
func (h *Handle[T, R]) EmitResponseless(ctx context.Context, event T) error {
	return h.enqueue(ctx, envelope[T, R]{event: event, reply: newDiscardedReply[R]()})
}

func (h *Handle[T, R]) enqueue(ctx context.Context, env envelope[T, R]) error {
	// h must stay reachable until the push, or its cleanup may close the queue.
	defer runtime.KeepAlive(h)

	if err := ctx.Err(); err != nil {
		return err
	}

	m := h.ref.m
	if h.ref.released.Load() {
		return &EnqueueError{MailboxID: m.id, Err: ErrMailboxClosed}
	}
	if err := m.queue.push(env); err != nil {
		return &EnqueueError{MailboxID: m.id, Err: err}
	}

	m.metrics.EventEnqueued(m.eventType)
	m.metrics.QueueDepth(m.id, m.queue.len())
	return nil
}
