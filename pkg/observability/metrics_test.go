package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics

	// Must not panic.
	m.ObserveProbe("profile", ProbePresent)
	m.ObserveCreate("profile", CreateSucceeded, 0.5)
	m.ObserveBusyRejection()
	m.ObserveRecovery()
}

func TestObservations(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveProbe("profile", ProbePresent)
	m.ObserveProbe("profile", ProbePresent)
	m.ObserveProbe("account", ProbeError)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProbesTotal.WithLabelValues("profile", ProbePresent)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProbesTotal.WithLabelValues("account", ProbeError)))

	m.ObserveCreate("achievement", CreateSucceeded, 0.25)
	m.ObserveCreate("achievement", CreateSkipped, 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CreatesTotal.WithLabelValues("achievement", CreateSucceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CreatesTotal.WithLabelValues("achievement", CreateSkipped)))

	m.ObserveBusyRejection()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BusyRejections))
}
