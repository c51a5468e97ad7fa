package observability

import (
	"github.com/couchcryptid/airfield-weather-kiosk/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kiosk_wx"

// Metrics holds the Prometheus counters, histograms, and gauges for the kiosk.
type Metrics struct {
	ObservationsFetched prometheus.Counter
	SnapshotsPublished  prometheus.Counter
	TransformErrors     prometheus.Counter
	UnmatchedGroups     prometheus.Counter
	PipelineRunning     prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Provider metrics.
	ProviderRequests    *prometheus.CounterVec   // labels: kind={metar,taf}, outcome={success,error,empty}
	ProviderCache       *prometheus.CounterVec   // labels: kind={metar,taf}, result={hit,miss}
	ProviderAPIDuration *prometheus.HistogramVec // labels: kind={metar,taf}

	FlightCategory *prometheus.GaugeVec // labels: station, category; one-hot per station
}

// NewMetrics creates and registers all kiosk metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so
// tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ObservationsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observations_fetched_total",
			Help:      "Total raw observations fetched from the weather provider.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Total decoded snapshots handed to the loaders.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total observations that could not be turned into a snapshot.",
		}),
		UnmatchedGroups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unmatched_groups_total",
			Help:      "Total METAR groups no decoding rule recognized.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of observations per polled batch.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete fetch-decode-publish cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Weather provider requests by report kind and outcome.",
		}, []string{"kind", "outcome"}),
		ProviderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_cache_total",
			Help:      "Provider cache lookups by report kind and result.",
		}, []string{"kind", "result"}),
		ProviderAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_api_duration_seconds",
			Help:      "CheckWX API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"kind"}),
		FlightCategory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "flight_category",
			Help:      "1 for the current flight category of each station, 0 for the others.",
		}, []string{"station", "category"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ObservationsFetched,
		m.SnapshotsPublished,
		m.TransformErrors,
		m.UnmatchedGroups,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.ProviderRequests,
		m.ProviderCache,
		m.ProviderAPIDuration,
		m.FlightCategory,
	}
}

// SetFlightCategory marks cat as the station's current category.
func (m *Metrics) SetFlightCategory(station string, cat domain.FlightCategory) {
	for _, c := range domain.FlightCategories {
		v := 0.0
		if c == cat {
			v = 1
		}
		m.FlightCategory.WithLabelValues(station, string(c)).Set(v)
	}
}
