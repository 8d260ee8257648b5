package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/mailbox-go/core/mailbox"
)

func TestCountPing(t *testing.T) {
	n := 0
	require.Equal(t, Pong{OK: true, Count: 1}, countPing(context.Background(), Ping{Msg: "ping"}, &n))
	require.Equal(t, Pong{OK: false, Count: 2}, countPing(context.Background(), Ping{Msg: "pong"}, &n))
	require.Equal(t, 2, n)
}

func TestRunProducers(t *testing.T) {
	mb := newCounter(t.Context(), nil, mailbox.NopMetrics())
	defer mb.Close()

	res, err := runProducers(t.Context(), mb, 100, 3)
	require.NoError(t, err)
	require.Equal(t, Result{Sent: 300, Pongs: 300, MaxCount: 300}, res)
}

func TestRunProducers_closed(t *testing.T) {
	mb := newCounter(t.Context(), nil, mailbox.NopMetrics())
	mb.Close()

	_, err := runProducers(t.Context(), mb, 4, 1)
	require.ErrorIs(t, err, mailbox.ErrMailboxClosed)
}

func TestRootCmd(t *testing.T) {
	cmd := newRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetArgs([]string{"--producers", "10", "--events", "5", "--log-level", "warn"})

	require.NoError(t, cmd.ExecuteContext(t.Context()))
	require.Equal(t, "count=50 pongs=50\n", out.String())
}

func TestRootCmd_invalid(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--producers", "0"})

	require.ErrorContains(t, cmd.ExecuteContext(t.Context()), "producers must be positive")
}

func TestServeCmd_requires_nats(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"serve"})

	require.ErrorContains(t, cmd.ExecuteContext(t.Context()), "--nats-url")
}
