package client

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "keyvault_client"

// Metrics collects statistics of the log writes made by Client.
type Metrics struct {
	appends   *prometheus.CounterVec
	conflicts prometheus.Counter
	attempts  prometheus.Histogram
}

// NewMetrics creates Metrics and registers them in reg. Nil reg leaves
// metrics unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		appends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "appends_total",
			Help:      "Number of append operations by result.",
		}, []string{"result"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fence_conflicts_total",
			Help:      "Number of appends rejected because of a stale expected index.",
		}),
		attempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "append_attempts",
			Help:      "Number of attempts spent per append operation.",
			Buckets:   []float64{1, 2, 3, 5, 8},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.appends, m.conflicts, m.attempts)
	}
	return m
}

func (m *Metrics) observeAppend(err error, attempts int) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.appends.WithLabelValues(result).Inc()
	m.attempts.Observe(float64(attempts))
}

func (m *Metrics) observeConflict() {
	m.conflicts.Inc()
}
