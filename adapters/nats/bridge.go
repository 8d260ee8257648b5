// Package nats exposes mailboxes over NATS subjects.
//
// [Serve] subscribes a subject and feeds every decoded message into a
// mailbox handle. Request messages are answered with the handler's response,
// plain publishes are emitted fire-and-forget. [Request] and [Publish] are
// the matching client helpers.
package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	natsgo "github.com/nats-io/nats.go"

	"github.com/codewandler/mailbox-go/core/mailbox"
	"github.com/codewandler/mailbox-go/internal/codec"
)

var ErrBridgeClosed = errors.New("bridge closed")

type BridgeConfig struct {
	Connect Connector    // Connect is used to create the underlying NATS connection. If nil, ConnectDefault() is used.
	Subject string       // Subject to serve (required)
	Queue   string       // Queue group; empty subscribes without a group
	Log     *slog.Logger // Log for diagnostics (optional)
}

// responseFrame is the wire encoding of a reply.
type responseFrame struct {
	Data json.RawMessage `json:"data,omitempty"`
	Err  string          `json:"err,omitempty"`
}

// Bridge serves one mailbox on one subject.
type Bridge struct {
	disconnect Disconnect
	sub        *natsgo.Subscription
	log        *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	release  func()
	inflight sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// Serve subscribes cfg.Subject and emits every message into mb. The bridge
// holds its own clone of mb until Close.
func Serve[T, R any](ctx context.Context, cfg BridgeConfig, mb *mailbox.Handle[T, R]) (*Bridge, error) {
	if cfg.Subject == "" {
		return nil, errors.New("nats: subject is required")
	}
	connFn := cfg.Connect
	if connFn == nil {
		connFn = ConnectDefault()
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	nc, disconnect, err := connFn()
	if err != nil {
		return nil, fmt.Errorf("nats: connect: %w", err)
	}

	h := mb.Clone()
	b := &Bridge{
		disconnect: disconnect,
		log:        log.With(slog.String("subject", cfg.Subject), slog.String("mailbox", h.ID())),
		release:    h.Close,
	}
	b.ctx, b.cancel = context.WithCancel(ctx)

	handler := func(msg *natsgo.Msg) { serveMsg(b, h, msg) }
	if cfg.Queue != "" {
		b.sub, err = nc.QueueSubscribe(cfg.Subject, cfg.Queue, handler)
	} else {
		b.sub, err = nc.Subscribe(cfg.Subject, handler)
	}
	if err != nil {
		b.cancel()
		h.Close()
		disconnect()
		return nil, fmt.Errorf("nats: subscribe: %w", err)
	}

	// stop serving when the parent context ends
	go func() {
		<-b.ctx.Done()
		_ = b.Close()
	}()

	b.log.Debug("bridge started")
	return b, nil
}

func serveMsg[T, R any](b *Bridge, mb *mailbox.Handle[T, R], msg *natsgo.Msg) {
	var event T
	if err := codec.JSON.Unmarshal(msg.Data, &event); err != nil {
		b.log.Error("failed to decode event", slog.Any("error", err))
		b.respond(msg, nil, fmt.Errorf("decode event: %w", err))
		return
	}

	if msg.Reply == "" {
		if err := mb.EmitResponseless(b.ctx, event); err != nil {
			b.log.Warn("failed to emit event", slog.Any("error", err))
		}
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.respond(msg, nil, ErrBridgeClosed)
		return
	}
	b.inflight.Add(1)
	b.mu.Unlock()

	reply, err := mb.Emit(b.ctx, event)
	if err != nil {
		b.inflight.Done()
		b.respond(msg, nil, err)
		return
	}

	// wait off the subscription goroutine so later messages keep their order
	go func() {
		defer b.inflight.Done()
		res, err := reply.Receive(b.ctx)
		if err != nil {
			reply.Discard()
			b.respond(msg, nil, err)
			return
		}
		b.respond(msg, res, nil)
	}()
}

func (b *Bridge) respond(msg *natsgo.Msg, res any, resErr error) {
	if msg.Reply == "" {
		return
	}

	var rf responseFrame
	if resErr != nil {
		rf.Err = resErr.Error()
	} else {
		data, err := codec.JSON.Marshal(res)
		if err != nil {
			rf.Err = fmt.Sprintf("encode response: %s", err)
		} else {
			rf.Data = data
		}
	}

	payload, err := json.Marshal(rf)
	if err != nil {
		b.log.Error("failed to encode reply", slog.Any("error", err))
		return
	}
	if err := msg.Respond(payload); err != nil {
		b.log.Error("failed to publish reply", slog.Any("error", err))
	}
}

// Close stops the subscription, waits for pending replies and releases the
// mailbox handle and the connection.
func (b *Bridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBridgeClosed
	}
	b.closed = true
	b.mu.Unlock()

	err := b.sub.Unsubscribe()
	b.inflight.Wait()
	b.cancel()
	b.release()
	b.disconnect()

	b.log.Debug("bridge closed")
	return err
}
