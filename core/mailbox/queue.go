package mailbox

import (
	"context"
	"sync"
)

// queue is an unbounded FIFO with many producers and a single consumer.
// push never blocks; pop blocks until an item is available, the queue is
// closed and drained, or ctx is done.
type queue[E any] struct {
	mu     sync.Mutex
	items  []E
	closed bool

	// wake holds at most one pending wake-up for the consumer.
	wake chan struct{}
}

func newQueue[E any]() *queue[E] {
	return &queue[E]{wake: make(chan struct{}, 1)}
}

func (q *queue[E]) push(e E) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrMailboxClosed
	}
	q.items = append(q.items, e)
	q.mu.Unlock()

	q.signal()
	return nil
}

func (q *queue[E]) pop(ctx context.Context) (e E, ok bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			e = q.items[0]
			var zero E
			q.items[0] = zero
			q.items = q.items[1:]
			q.mu.Unlock()
			return e, true
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return e, false
		}

		select {
		case <-ctx.Done():
			return e, false
		case <-q.wake:
		}
	}
}

// close rejects further pushes. Items already queued stay poppable.
func (q *queue[E]) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

// drain closes the queue and removes everything still in it.
func (q *queue[E]) drain() []E {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	items := q.items
	q.items = nil
	return items
}

func (q *queue[E]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *queue[E]) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
