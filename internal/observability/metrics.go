package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// assessment service.
type Metrics struct {
	ReadingsConsumed    prometheus.Counter
	AssessmentsProduced prometheus.Counter
	AssessErrors        prometheus.Counter
	PipelineRunning     prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Assessment metrics.
	AssessmentsTotal   *prometheus.CounterVec // labels: category={disease,pest}, mode={standard,meta}
	ValidationErrors   prometheus.Counter
	AssessmentDuration prometheus.Histogram

	// Catalog metrics.
	CatalogDefinitions *prometheus.GaugeVec // labels: category={disease,pest}

	// Tile proxy metrics.
	TileRequests        *prometheus.CounterVec // labels: outcome={success,upstream_error,error}
	TileRequestDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ReadingsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crop_risk",
			Name:      "readings_consumed_total",
			Help:      "Total readings read from the source topic.",
		}),
		AssessmentsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crop_risk",
			Name:      "assessments_produced_total",
			Help:      "Total assessments written to the sink topic.",
		}),
		AssessErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crop_risk",
			Name:      "assess_errors_total",
			Help:      "Total readings that failed assessment.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crop_risk",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crop_risk",
			Name:      "batch_size",
			Help:      "Number of readings per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crop_risk",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-assess-publish cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		AssessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crop_risk",
			Name:      "assessments_total",
			Help:      "Completed assessments by category and scoring mode.",
		}, []string{"category", "mode"}),
		ValidationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crop_risk",
			Name:      "validation_errors_total",
			Help:      "Readings rejected by parameter validation.",
		}),
		AssessmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crop_risk",
			Name:      "assessment_duration_seconds",
			Help:      "Duration of a single normalize-score-rank assessment.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		CatalogDefinitions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "crop_risk",
			Name:      "catalog_definitions",
			Help:      "Loaded catalog definitions by category.",
		}, []string{"category"}),
		TileRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crop_risk",
			Name:      "tile_requests_total",
			Help:      "Imagery tile proxy requests by outcome.",
		}, []string{"outcome"}),
		TileRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crop_risk",
			Name:      "tile_request_duration_seconds",
			Help:      "Upstream tile request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}

	prometheus.MustRegister(
		m.ReadingsConsumed,
		m.AssessmentsProduced,
		m.AssessErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.AssessmentsTotal,
		m.ValidationErrors,
		m.AssessmentDuration,
		m.CatalogDefinitions,
		m.TileRequests,
		m.TileRequestDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ReadingsConsumed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crop_risk", Name: "readings_consumed_total"}),
		AssessmentsProduced:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crop_risk", Name: "assessments_produced_total"}),
		AssessErrors:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crop_risk", Name: "assess_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "crop_risk", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "crop_risk", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "crop_risk", Name: "batch_processing_duration_seconds"}),
		AssessmentsTotal:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crop_risk", Name: "assessments_total"}, []string{"category", "mode"}),
		ValidationErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crop_risk", Name: "validation_errors_total"}),
		AssessmentDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "crop_risk", Name: "assessment_duration_seconds"}),
		CatalogDefinitions:      prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "crop_risk", Name: "catalog_definitions"}, []string{"category"}),
		TileRequests:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crop_risk", Name: "tile_requests_total"}, []string{"outcome"}),
		TileRequestDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "crop_risk", Name: "tile_request_duration_seconds"}),
	}
}
