package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// prediction service.
type Metrics struct {
	PredictionsTotal    *prometheus.CounterVec // labels: level
	PredictionFailures  prometheus.Counter
	PredictionDuration  prometheus.Histogram
	PredictionsInFlight prometheus.Gauge

	// Per-source health.
	SourceFailures   *prometheus.CounterVec   // labels: source
	SourceFallbacks  *prometheus.CounterVec   // labels: source
	ProviderDuration *prometheus.HistogramVec // labels: provider

	ClassifierDuration prometheus.Histogram

	// Result sink metrics.
	SinkPublished prometheus.Counter
	SinkErrors    prometheus.Counter

	BatchSize prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landslide_risk",
			Name:      "predictions_total",
			Help:      "Completed predictions by resulting risk level.",
		}, []string{"level"}),
		PredictionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "landslide_risk",
			Name:      "prediction_failures_total",
			Help:      "Predictions aborted by a fatal classifier failure.",
		}),
		PredictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "landslide_risk",
			Name:      "prediction_duration_seconds",
			Help:      "End-to-end duration of a prediction request.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		PredictionsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "landslide_risk",
			Name:      "predictions_in_flight",
			Help:      "Predictions currently being computed.",
		}),
		SourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landslide_risk",
			Name:      "source_failures_total",
			Help:      "Signal source failures by source name.",
		}, []string{"source"}),
		SourceFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landslide_risk",
			Name:      "source_fallbacks_total",
			Help:      "Fallback score substitutions by source name.",
		}, []string{"source"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "landslide_risk",
			Name:      "provider_duration_seconds",
			Help:      "External provider request duration by provider.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		ClassifierDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "landslide_risk",
			Name:      "classifier_duration_seconds",
			Help:      "Classifier scoring request duration.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SinkPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "landslide_risk",
			Name:      "sink_published_total",
			Help:      "Fusion results published to the sink topic.",
		}),
		SinkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "landslide_risk",
			Name:      "sink_errors_total",
			Help:      "Failed sink publishes (logged, never fatal).",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "landslide_risk",
			Name:      "batch_size",
			Help:      "Number of locations per batch prediction request.",
			Buckets:   []float64{1, 5, 10, 20, 30, 50, 75, 100},
		}),
	}

	prometheus.MustRegister(
		m.PredictionsTotal,
		m.PredictionFailures,
		m.PredictionDuration,
		m.PredictionsInFlight,
		m.SourceFailures,
		m.SourceFallbacks,
		m.ProviderDuration,
		m.ClassifierDuration,
		m.SinkPublished,
		m.SinkErrors,
		m.BatchSize,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PredictionsTotal:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "landslide_risk", Name: "predictions_total"}, []string{"level"}),
		PredictionFailures:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "landslide_risk", Name: "prediction_failures_total"}),
		PredictionDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "landslide_risk", Name: "prediction_duration_seconds"}),
		PredictionsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "landslide_risk", Name: "predictions_in_flight"}),
		SourceFailures:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "landslide_risk", Name: "source_failures_total"}, []string{"source"}),
		SourceFallbacks:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "landslide_risk", Name: "source_fallbacks_total"}, []string{"source"}),
		ProviderDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "landslide_risk", Name: "provider_duration_seconds"}, []string{"provider"}),
		ClassifierDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "landslide_risk", Name: "classifier_duration_seconds"}),
		SinkPublished:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "landslide_risk", Name: "sink_published_total"}),
		SinkErrors:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "landslide_risk", Name: "sink_errors_total"}),
		BatchSize:           prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "landslide_risk", Name: "batch_size"}),
	}
}
