// Package prometheus provides a Prometheus implementation of [mailbox.Metrics].
package prometheus

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/mailbox-go/core/mailbox"
	"github.com/codewandler/mailbox-go/core/metrics"
)

// Default histogram buckets for latency metrics (in seconds).
var defaultBuckets = []float64{
	.0001, .0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10,
}

// mailboxMetrics implements mailbox.Metrics using Prometheus.
type mailboxMetrics struct {
	eventsEnqueued  *prometheus.CounterVec
	eventsHandled   *prometheus.CounterVec
	handlerDuration *prometheus.HistogramVec
	handlerPanics   *prometheus.CounterVec
	queueDepth      *prometheus.GaugeVec
	repliesDropped  *prometheus.CounterVec
}

// NewMailboxMetrics creates the mailbox metrics and registers them with reg.
// Metrics are shared by all mailboxes using the returned value; register
// once per registry.
func NewMailboxMetrics(reg prometheus.Registerer) mailbox.Metrics {
	m := &mailboxMetrics{
		eventsEnqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mailbox_events_enqueued_total",
			Help: "Total number of events enqueued",
		}, []string{"event_type"}),

		eventsHandled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mailbox_events_handled_total",
			Help: "Total number of events handled by the dispatcher",
		}, []string{"event_type"}),

		handlerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mailbox_handler_duration_seconds",
			Help:    "Handler execution time in seconds",
			Buckets: defaultBuckets,
		}, []string{"event_type"}),

		handlerPanics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mailbox_handler_panics_total",
			Help: "Total number of handler panics",
		}, []string{"event_type"}),

		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mailbox_queue_depth",
			Help: "Current number of queued events",
		}, []string{"mailbox_id"}),

		repliesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mailbox_replies_dropped_total",
			Help: "Total number of responses without a receiver",
		}, []string{"event_type", "responseless"}),
	}

	reg.MustRegister(
		m.eventsEnqueued,
		m.eventsHandled,
		m.handlerDuration,
		m.handlerPanics,
		m.queueDepth,
		m.repliesDropped,
	)

	return m
}

func (m *mailboxMetrics) EventEnqueued(eventType string) {
	m.eventsEnqueued.WithLabelValues(eventType).Inc()
}

func (m *mailboxMetrics) QueueDepth(mailboxID string, depth int) {
	m.queueDepth.WithLabelValues(mailboxID).Set(float64(depth))
}

func (m *mailboxMetrics) HandlerDuration(eventType string) metrics.Timer {
	return metrics.NewTimer(m.handlerDuration.WithLabelValues(eventType).Observe)
}

func (m *mailboxMetrics) EventHandled(eventType string) {
	m.eventsHandled.WithLabelValues(eventType).Inc()
}

func (m *mailboxMetrics) HandlerPanic(eventType string) {
	m.handlerPanics.WithLabelValues(eventType).Inc()
}

func (m *mailboxMetrics) ReplyDropped(eventType string, responseless bool) {
	m.repliesDropped.WithLabelValues(eventType, strconv.FormatBool(responseless)).Inc()
}

var _ mailbox.Metrics = (*mailboxMetrics)(nil)
