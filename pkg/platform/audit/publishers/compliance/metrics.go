package compliance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the fail-closed publisher. A nil *Metrics is a no-op.
type Metrics struct {
	eventsEmitted   prometheus.Counter
	persistFailures prometheus.Counter
	persistDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		eventsEmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "tokenguard_compliance_audit_events_total",
			Help: "Compliance audit events persisted",
		}),
		persistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "tokenguard_compliance_audit_persist_failures_total",
			Help: "Compliance audit writes that failed and aborted the operation",
		}),
		persistDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tokenguard_compliance_audit_persist_duration_seconds",
			Help:    "Time to persist one compliance audit event",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
	}
}

func (m *Metrics) IncEventsEmitted() {
	if m == nil {
		return
	}
	m.eventsEmitted.Inc()
}

func (m *Metrics) IncPersistFailures() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}

func (m *Metrics) ObservePersistDuration(seconds float64) {
	if m == nil {
		return
	}
	m.persistDuration.Observe(seconds)
}
