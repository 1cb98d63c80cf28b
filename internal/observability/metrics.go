package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "daily_report"

// Metrics holds the Prometheus counters, histograms, and gauges for report runs.
type Metrics struct {
	Registry *prometheus.Registry

	RunsTotal        prometheus.Counter
	VenuesSucceeded  prometheus.Counter
	VenuesFailed     *prometheus.CounterVec // labels: stage={fetch,save}
	RunDuration      prometheus.Histogram
	LastRunTimestamp prometheus.Gauge
	LastRunFailed    prometheus.Gauge

	// Backend API metrics.
	BackendRequests *prometheus.CounterVec   // labels: endpoint={daily_report,save_report_csv}, outcome={success,error,empty}
	BackendDuration *prometheus.HistogramVec // labels: endpoint

	// Kafka fan-out metrics.
	RecordsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates all report metrics on a dedicated registry that also
// carries the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := newMetrics(reg)
	reg.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics on a fresh registry without runtime
// collectors, so each test starts from zero.
func NewMetricsForTesting() *Metrics {
	reg := prometheus.NewRegistry()
	m := newMetrics(reg)
	reg.MustRegister(m.collectors()...)
	return m
}

func newMetrics(reg *prometheus.Registry) *Metrics {
	return &Metrics{
		Registry: reg,
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total report runs started.",
		}),
		VenuesSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "venues_succeeded_total",
			Help:      "Venues whose report was fetched and saved.",
		}),
		VenuesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "venues_failed_total",
			Help:      "Venues skipped by the stage that failed.",
		}, []string{"stage"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete report run over all venues.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time at which the last run finished.",
		}),
		LastRunFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_failed_venues",
			Help:      "Number of venues that failed in the last run.",
		}),
		BackendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Backend API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		BackendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Backend API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_published_total",
			Help:      "Saved records published to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Records that could not be published to Kafka.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RunsTotal,
		m.VenuesSucceeded,
		m.VenuesFailed,
		m.RunDuration,
		m.LastRunTimestamp,
		m.LastRunFailed,
		m.BackendRequests,
		m.BackendDuration,
		m.RecordsPublished,
		m.PublishErrors,
	}
}
