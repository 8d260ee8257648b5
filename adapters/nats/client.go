package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	natsgo "github.com/nats-io/nats.go"

	"github.com/codewandler/mailbox-go/internal/codec"
)

// Request sends event to a mailbox served on subject and waits for the
// response.
func Request[T, R any](ctx context.Context, nc *natsgo.Conn, subject string, event T) (res R, err error) {
	data, err := codec.JSON.Marshal(event)
	if err != nil {
		return res, fmt.Errorf("encode event: %w", err)
	}

	msg, err := nc.RequestWithContext(ctx, subject, data)
	if err != nil {
		return res, fmt.Errorf("nats: request: %w", err)
	}

	var rf responseFrame
	if err := json.Unmarshal(msg.Data, &rf); err != nil {
		return res, fmt.Errorf("decode response: %w", err)
	}
	if rf.Err != "" {
		return res, errors.New(rf.Err)
	}
	if err := codec.JSON.Unmarshal(rf.Data, &res); err != nil {
		return res, fmt.Errorf("decode response: %w", err)
	}
	return res, nil
}

// Publish sends event to a mailbox served on subject without waiting for it
// to be handled.
func Publish[T any](nc *natsgo.Conn, subject string, event T) error {
	data, err := codec.JSON.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := nc.Publish(subject, data); err != nil {
		return fmt.Errorf("nats: publish: %w", err)
	}
	return nil
}
