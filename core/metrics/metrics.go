// Package metrics holds the backend-neutral metric types shared by the core
// packages. Backends such as Prometheus live under adapters/.
package metrics

import "time"

// Timer measures one operation. ObserveDuration records the time elapsed
// since the timer was created:
//
//	defer m.HandlerDuration("ping").ObserveDuration()
type Timer interface {
	ObserveDuration()
}

// ObserverFunc receives a duration in seconds.
type ObserverFunc func(seconds float64)

type funcTimer struct {
	observe ObserverFunc
	start   time.Time
}

func (t *funcTimer) ObserveDuration() { t.observe(time.Since(t.start).Seconds()) }

// NewTimer starts a Timer reporting to observe.
func NewTimer(observe ObserverFunc) Timer {
	return &funcTimer{observe: observe, start: time.Now()}
}
