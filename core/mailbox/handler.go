package mailbox

import "context"

type (
	// Handler applies one event to the mailbox state and returns the response.
	// It is only ever called from the dispatcher goroutine, one event at a
	// time, so it may mutate state freely. Implementations must not retain
	// state beyond the call.
	Handler[T, R, D any] interface {
		Handle(ctx context.Context, event T, state *D) R
	}

	// HandlerFunc adapts a function to [Handler].
	HandlerFunc[T, R, D any] func(ctx context.Context, event T, state *D) R

	// OnPanic is called when a handler panics. The dispatcher stops afterwards.
	OnPanic func(recovered any, stack []byte, event any)
)

func (f HandlerFunc[T, R, D]) Handle(ctx context.Context, event T, state *D) R {
	return f(ctx, event, state)
}
