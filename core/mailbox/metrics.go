package mailbox

import "github.com/codewandler/mailbox-go/core/metrics"

// Metrics defines the instrumentation hooks of a mailbox.
// All methods are thread-safe.
type Metrics interface {
	// Queue
	EventEnqueued(eventType string)
	QueueDepth(mailboxID string, depth int)

	// Dispatcher
	HandlerDuration(eventType string) metrics.Timer
	EventHandled(eventType string)
	HandlerPanic(eventType string)

	// ReplyDropped counts responses that had no receiver. responseless is
	// true for fire-and-forget events.
	ReplyDropped(eventType string, responseless bool)
}

type nopMetrics struct{}

func (nopMetrics) EventEnqueued(string)   {}
func (nopMetrics) QueueDepth(string, int) {}

func (nopMetrics) HandlerDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) EventHandled(string)                  {}
func (nopMetrics) HandlerPanic(string)                  {}

func (nopMetrics) ReplyDropped(string, bool) {}

// NopMetrics returns a no-op Metrics implementation.
func NopMetrics() Metrics { return nopMetrics{} }
