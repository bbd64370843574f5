package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the identity registry.
type Metrics struct {
	// Verification outcomes: "verified", "lost", "unregistered",
	// "unknown_topic", "unsatisfied", "error"
	VerificationOutcome *prometheus.CounterVec

	// Per-issuer soft failures while checking a claim
	IssuerFailures *prometheus.CounterVec

	VerifyLatency prometheus.Histogram

	// Registry mutations by kind
	Mutations *prometheus.CounterVec
}

// New registers identity metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		VerificationOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tokenguard_identity_verifications_total",
			Help: "Total verification decisions by outcome",
		}, []string{"outcome"}),

		IssuerFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tokenguard_identity_issuer_failures_total",
			Help: "Claim lookups or attestations that failed for one issuer",
		}, []string{"stage"}), // stage: "claim", "issuer", "attest"

		VerifyLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tokenguard_identity_verify_duration_seconds",
			Help:    "Duration of a full verification decision",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),

		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tokenguard_identity_mutations_total",
			Help: "Identity registry mutations by kind",
		}, []string{"kind"}),
	}
}

func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.VerificationOutcome.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementIssuerFailure(stage string) {
	if m != nil {
		m.IssuerFailures.WithLabelValues(stage).Inc()
	}
}

// ObserveVerify records the duration of a verification started at start.
func (m *Metrics) ObserveVerify(start time.Time) {
	if m != nil {
		m.VerifyLatency.Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) IncrementMutation(kind string) {
	if m != nil {
		m.Mutations.WithLabelValues(kind).Inc()
	}
}
