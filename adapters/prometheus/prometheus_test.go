package prometheus

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewandler/mailbox-go/core/mailbox"
)

func TestNewMailboxMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMailboxMetrics(reg)

	require.NotNil(t, m)

	m.EventEnqueued("ping")
	m.QueueDepth("mb-1", 10)

	timer := m.HandlerDuration("ping")
	assert.NotNil(t, timer)
	timer.ObserveDuration()

	m.EventHandled("ping")
	m.HandlerPanic("ping")
	m.ReplyDropped("ping", true)
	m.ReplyDropped("ping", false)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}

	assert.True(t, names["mailbox_events_enqueued_total"])
	assert.True(t, names["mailbox_events_handled_total"])
	assert.True(t, names["mailbox_handler_duration_seconds"])
	assert.True(t, names["mailbox_handler_panics_total"])
	assert.True(t, names["mailbox_queue_depth"])
	assert.True(t, names["mailbox_replies_dropped_total"])
}

func TestMailboxMetrics_wired(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMailboxMetrics(reg).(*mailboxMetrics)

	mb := mailbox.New[string, bool, int](
		mailbox.Options{Context: t.Context(), ID: "counter", Metrics: m},
		mailbox.HandlerFunc[string, bool, int](func(ctx context.Context, msg string, n *int) bool {
			*n++
			return msg == "ping"
		}),
		0,
	)
	defer mb.Close()

	require.NoError(t, mb.EmitResponseless(t.Context(), "tick"))
	for range 3 {
		reply, err := mb.Emit(t.Context(), "ping")
		require.NoError(t, err)
		ok, err := reply.Receive(t.Context())
		require.NoError(t, err)
		require.True(t, ok)
	}

	assert.Equal(t, float64(4), testutil.ToFloat64(m.eventsEnqueued.WithLabelValues("string")))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.eventsHandled.WithLabelValues("string")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.repliesDropped.WithLabelValues("string", "true")))
}
