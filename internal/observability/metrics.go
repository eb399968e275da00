package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the gap
// analysis pipeline and the query API.
type Metrics struct {
	ObservationsExtracted prometheus.Counter
	UnknownParameters     prometheus.Counter
	BuildRunning          prometheus.Gauge

	GapsDetected  *prometheus.CounterVec // labels: table={huc12,station}
	BuildDuration prometheus.Histogram

	// Query API metrics.
	QueryRequests *prometheus.CounterVec // labels: table, outcome={success,invalid_filter}
	QueryDuration prometheus.Histogram
	TableRows     *prometheus.GaugeVec // labels: table
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ObservationsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "watergap",
			Name:      "observations_extracted_total",
			Help:      "Total raw observation rows read from the source table.",
		}),
		UnknownParameters: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "watergap",
			Name:      "unknown_parameters_total",
			Help:      "Observation rows whose parameter names matched no classifier rule.",
		}),
		BuildRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "watergap",
			Name:      "build_running",
			Help:      "1 while a gap-table build is in progress, 0 otherwise.",
		}),
		GapsDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "watergap",
			Name:      "gaps_detected_total",
			Help:      "Coverage gaps written to the output tables, by table.",
		}, []string{"table"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "watergap",
			Name:      "build_duration_seconds",
			Help:      "Duration of a complete extract-classify-detect-persist run.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		QueryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "watergap",
			Name:      "query_requests_total",
			Help:      "Gap table queries by table and outcome.",
		}, []string{"table", "outcome"}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "watergap",
			Name:      "query_duration_seconds",
			Help:      "Duration of a gap table filter evaluation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		TableRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "watergap",
			Name:      "table_rows",
			Help:      "Rows in each loaded gap table.",
		}, []string{"table"}),
	}

	prometheus.MustRegister(
		m.ObservationsExtracted,
		m.UnknownParameters,
		m.BuildRunning,
		m.GapsDetected,
		m.BuildDuration,
		m.QueryRequests,
		m.QueryDuration,
		m.TableRows,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ObservationsExtracted: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "watergap", Name: "observations_extracted_total"}),
		UnknownParameters:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "watergap", Name: "unknown_parameters_total"}),
		BuildRunning:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "watergap", Name: "build_running"}),
		GapsDetected:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "watergap", Name: "gaps_detected_total"}, []string{"table"}),
		BuildDuration:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "watergap", Name: "build_duration_seconds"}),
		QueryRequests:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "watergap", Name: "query_requests_total"}, []string{"table", "outcome"}),
		QueryDuration:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "watergap", Name: "query_duration_seconds"}),
		TableRows:             prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "watergap", Name: "table_rows"}, []string{"table"}),
	}
}
