// Package observability exposes Prometheus metrics for the onboarding engine.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Probe result labels.
const (
	ProbePresent = "present"
	ProbeAbsent  = "absent"
	ProbeForeign = "foreign"
	ProbeError   = "error"
)

// Create outcome labels.
const (
	CreateSucceeded = "succeeded"
	CreateFailed    = "failed"
	CreateSkipped   = "skipped"
)

// Metrics holds the engine's instrumentation. A nil *Metrics is a valid
// no-op receiver, so callers never need to guard.
type Metrics struct {
	ProbesTotal     *prometheus.CounterVec
	CreatesTotal    *prometheus.CounterVec
	BusyRejections  prometheus.Counter
	RecoveriesTotal prometheus.Counter
	CreateDuration  *prometheus.HistogramVec
}

// New registers the engine metrics on the given registerer (nil means the
// default registry).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		ProbesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sprout_ledger_probes_total",
			Help: "Ledger probes by resource kind and classification result",
		}, []string{"kind", "result"}),
		CreatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sprout_creates_total",
			Help: "Creation attempts by resource kind and outcome",
		}, []string{"kind", "outcome"}),
		BusyRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "sprout_busy_rejections_total",
			Help: "Creation attempts rejected because another write was in flight",
		}),
		RecoveriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "sprout_recoveries_total",
			Help: "Automatic stuck-state recoveries performed",
		}),
		CreateDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sprout_create_duration_seconds",
			Help:    "Wall time of ledger creation writes",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
	}
}

// ObserveProbe records one probe classification.
func (m *Metrics) ObserveProbe(kind, result string) {
	if m == nil {
		return
	}
	m.ProbesTotal.WithLabelValues(kind, result).Inc()
}

// ObserveCreate records one creation outcome.
func (m *Metrics) ObserveCreate(kind, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.CreatesTotal.WithLabelValues(kind, outcome).Inc()
	if outcome != CreateSkipped {
		m.CreateDuration.WithLabelValues(kind).Observe(seconds)
	}
}

// ObserveBusyRejection records a guard rejection.
func (m *Metrics) ObserveBusyRejection() {
	if m == nil {
		return
	}
	m.BusyRejections.Inc()
}

// ObserveRecovery records a stuck-state repair.
func (m *Metrics) ObserveRecovery() {
	if m == nil {
		return
	}
	m.RecoveriesTotal.Inc()
}
