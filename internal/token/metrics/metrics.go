package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the hook dispatcher.
type Metrics struct {
	// Operations by kind and outcome ("committed", "rejected", "failed")
	Operations *prometheus.CounterVec

	OperationLatency *prometheus.HistogramVec

	// Rejections by error code
	Rejections *prometheus.CounterVec

	TotalSupply prometheus.Gauge
}

// New registers dispatcher metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tokenguard_token_operations_total",
			Help: "Dispatcher operations by kind and outcome",
		}, []string{"op", "outcome"}),

		OperationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tokenguard_token_operation_duration_seconds",
			Help:    "Duration of a dispatcher operation including every hook",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"op"}),

		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tokenguard_token_rejections_total",
			Help: "Operations rejected by a named condition",
		}, []string{"code"}),

		TotalSupply: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tokenguard_token_total_supply",
			Help: "Total supply after the last committed operation, in base units",
		}),
	}
}

func (m *Metrics) IncrementOperation(op, outcome string) {
	if m != nil {
		m.Operations.WithLabelValues(op, outcome).Inc()
	}
}

// ObserveOperation records the duration of op started at start.
func (m *Metrics) ObserveOperation(op string, start time.Time) {
	if m != nil {
		m.OperationLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) IncrementRejection(code string) {
	if m != nil {
		m.Rejections.WithLabelValues(code).Inc()
	}
}

func (m *Metrics) SetTotalSupply(v float64) {
	if m != nil {
		m.TotalSupply.Set(v)
	}
}
