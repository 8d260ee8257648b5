package mailbox

import (
	"context"
	"log/slog"
	"runtime/debug"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/codewandler/mailbox-go/internal/reflector"
)

type Options struct {
	// ID identifies the mailbox in logs and metrics. Generated if empty.
	ID string
	// Context bounds the dispatcher. Cancelling it stops the dispatcher
	// without handling the remaining events.
	Context context.Context
	Logger  *slog.Logger
	Metrics Metrics
	OnPanic OnPanic
}

type envelope[T, R any] struct {
	event T
	reply *Reply[R]
}

// mailbox is shared by all handles of one mailbox.
type mailbox[T, R any] struct {
	id        string
	eventType string
	log       *slog.Logger
	metrics   Metrics

	queue *queue[envelope[T, R]]
	done  chan struct{}
}

// dispatcher owns the handler state. It lives in exactly one goroutine.
type dispatcher[T, R, D any] struct {
	*mailbox[T, R]

	ctx     context.Context
	handler Handler[T, R, D]
	state   D
	onPanic OnPanic
}

// New starts a mailbox that applies handler to every submitted event, with
// initial as the starting state, and returns the first handle to it.
func New[T, R, D any](opts Options, handler Handler[T, R, D], initial D) *Handle[T, R] {
	if opts.ID == "" {
		opts.ID = gonanoid.Must(8)
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NopMetrics()
	}

	log := opts.Logger.With(slog.String("mailbox", opts.ID))

	if opts.OnPanic == nil {
		opts.OnPanic = func(recovered any, stack []byte, event any) {
			log.Error("handler panicked", slog.Any("recovered", recovered), slog.String("stack", string(stack)), slog.Any("event", event))
		}
	}

	m := &mailbox[T, R]{
		id:        opts.ID,
		eventType: reflector.TypeInfoFor[T]().Name,
		log:       log,
		metrics:   opts.Metrics,
		queue:     newQueue[envelope[T, R]](),
		done:      make(chan struct{}),
	}

	d := &dispatcher[T, R, D]{
		mailbox: m,
		ctx:     opts.Context,
		handler: handler,
		state:   initial,
		onPanic: opts.OnPanic,
	}

	go d.run()
	return newHandle(m)
}

func (d *dispatcher[T, R, D]) run() {
	defer close(d.done)
	defer d.abandonPending()

	d.log.Debug("dispatcher started", slog.String("event_type", d.eventType))

	for {
		if err := d.ctx.Err(); err != nil {
			d.log.Debug("dispatcher cancelled", slog.Any("cause", context.Cause(d.ctx)))
			return
		}

		env, ok := d.queue.pop(d.ctx)
		if !ok {
			if d.ctx.Err() == nil {
				d.log.Debug("mailbox closed")
				return
			}
			// cancelled while waiting
			continue
		}
		d.metrics.QueueDepth(d.id, d.queue.len())

		res, ok := d.invoke(env.event)
		if !ok {
			env.reply.abandon()
			d.log.Error("dispatcher stopped after handler panic")
			return
		}

		d.deliver(env.reply, res)
	}
}

// invoke runs the handler once. It reports false if the handler panicked.
func (d *dispatcher[T, R, D]) invoke(event T) (res R, ok bool) {
	defer d.metrics.HandlerDuration(d.eventType).ObserveDuration()

	defer func() {
		if r := recover(); r != nil {
			d.metrics.HandlerPanic(d.eventType)
			d.onPanic(r, debug.Stack(), event)
			ok = false
		}
	}()

	res = d.handler.Handle(d.ctx, event, &d.state)
	d.metrics.EventHandled(d.eventType)
	return res, true
}

// deliver never fails the dispatcher; an undeliverable reply is only logged.
func (d *dispatcher[T, R, D]) deliver(reply *Reply[R], res R) {
	if reply.deliver(res) {
		return
	}

	d.metrics.ReplyDropped(d.eventType, reply.responseless)

	level := slog.LevelWarn
	if reply.responseless {
		level = slog.LevelDebug
	}
	d.log.Log(d.ctx, level, "reply not delivered",
		slog.String("event_type", d.eventType),
		slog.Bool("responseless", reply.responseless),
		slog.Any("error", ErrReplyDeliveryFailed),
	)
}

func (d *dispatcher[T, R, D]) abandonPending() {
	pending := d.queue.drain()
	for _, env := range pending {
		env.reply.abandon()
	}
	if len(pending) > 0 {
		d.log.Warn("dropped pending events", slog.Int("count", len(pending)))
	}
	d.metrics.QueueDepth(d.id, 0)
}
