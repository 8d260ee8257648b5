// Package mailbox provides a single-consumer mailbox: an asynchronous actor
// that owns a piece of mutable state and applies every submitted event to it
// from exactly one dispatcher goroutine.
//
// Any number of producers may submit events concurrently. Events are handled
// strictly in enqueue order and never concurrently, so the handler can mutate
// its state without locks.
//
// # Creating a Mailbox
//
//	counter := mailbox.New(
//	    mailbox.Options{},
//	    mailbox.HandlerFunc[string, bool, int](func(ctx context.Context, msg string, n *int) bool {
//	        *n++
//	        return msg == "ping"
//	    }),
//	    0,
//	)
//	defer counter.Close()
//
// [New] starts the dispatcher and returns a [Handle]. Pass the handle (or a
// [Handle.Clone]) to every component that needs to talk to the mailbox.
//
// # Sending Events
//
// Use [Handle.Emit] when the response is needed:
//
//	reply, err := counter.Emit(ctx, "ping")
//	if err != nil {
//	    return err // mailbox closed, event was never handled
//	}
//	ok, err := reply.Receive(ctx)
//
// Use [Handle.EmitResponseless] for fire-and-forget. The handler still runs,
// its response is dropped:
//
//	err := counter.EmitResponseless(ctx, "tick")
//
// # Lifecycle
//
// Every handle holds one reference on the mailbox. [Handle.Close] releases it.
// Once the last reference is released the queue closes, envelopes already
// enqueued are still handled and the dispatcher exits. Cancelling
// [Options.Context] or a panicking handler stops the dispatcher immediately;
// pending replies then report [ErrNoReply].
//
//	<-counter.Done() // wait for the dispatcher to exit
package mailbox
