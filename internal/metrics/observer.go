package metrics

import (
	"sync"
	"time"

	"github.com/dmitrymomot/mailcast/pkg/dispatch"
)

// Observer returns a dispatch.Observer for a single run. It keeps per-run
// state for send timings, so a new one is needed for every run.
func (m *Metrics) Observer() dispatch.Observer {
	var (
		mu      sync.Mutex
		started bool
		attempt time.Time
	)

	return func(e dispatch.Event) {
		mu.Lock()
		defer mu.Unlock()

		switch ev := e.(type) {
		case dispatch.StartEvent:
			started = true
			m.activeRuns.Inc()
			m.invalid.Add(float64(ev.Invalid))
		case dispatch.AttemptEvent:
			attempt = time.Now()
		case dispatch.SentEvent:
			m.observeSend("sent", attempt)
		case dispatch.FailedEvent:
			m.observeSend("failed", attempt)
		case dispatch.CompleteEvent:
			m.finish(OutcomeComplete, &started)
		case dispatch.CancelledEvent:
			m.finish(OutcomeCancelled, &started)
		case dispatch.ErrorEvent:
			m.finish(OutcomeError, &started)
		}
	}
}

func (m *Metrics) observeSend(result string, since time.Time) {
	m.messages.WithLabelValues(result).Inc()
	if !since.IsZero() {
		m.sendDuration.WithLabelValues(result).Observe(time.Since(since).Seconds())
	}
}

func (m *Metrics) finish(outcome string, started *bool) {
	m.runs.WithLabelValues(outcome).Inc()
	if *started {
		m.activeRuns.Dec()
		*started = false
	}
}
