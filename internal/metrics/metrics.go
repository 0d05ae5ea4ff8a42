package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the diff and comparison instruments. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	DiffDuration *prometheus.HistogramVec
	Comparisons  *prometheus.CounterVec
	OracleCalls  *prometheus.CounterVec
	SourceStatus *prometheus.CounterVec
}

// New creates the instruments on a fresh registry that also carries the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		DiffDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ecco",
				Subsystem: "diff",
				Name:      "duration_seconds",
				Help:      "Time spent computing a diff, by stage",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),

		Comparisons: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ecco",
				Name:      "comparisons_total",
				Help:      "Pairwise source comparisons, by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),

		OracleCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ecco",
				Name:      "oracle_calls_total",
				Help:      "Entailment checks, by result (entailed, not_entailed, error)",
			},
			[]string{"result"},
		),

		SourceStatus: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ecco",
				Name:      "source_status_total",
				Help:      "Loaded sources, by status",
			},
			[]string{"status"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.DiffDuration,
		m.Comparisons,
		m.OracleCalls,
		m.SourceStatus,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.DiffDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) CountComparison(operation string, equivalent bool) {
	if m == nil {
		return
	}
	outcome := "different"
	if equivalent {
		outcome = "equivalent"
	}
	m.Comparisons.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) CountOracleCall(entailed bool, err error) {
	if m == nil {
		return
	}
	result := "not_entailed"
	switch {
	case err != nil:
		result = "error"
	case entailed:
		result = "entailed"
	}
	m.OracleCalls.WithLabelValues(result).Inc()
}

func (m *Metrics) CountSource(status string) {
	if m == nil {
		return
	}
	m.SourceStatus.WithLabelValues(status).Inc()
}
