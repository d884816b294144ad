// Package metrics provides Prometheus metrics collection for the turnover
// prediction service. It defines the HTTP, prediction, cache and model state
// metrics exposed via the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// HTTP metrics
	HTTPRequests        *prometheus.CounterVec   // Requests by route template and status code
	HTTPRequestDuration *prometheus.HistogramVec // Request latency by route template

	// Prediction metrics
	Predictions           prometheus.Counter   // Successful predictions
	PredictionFailures    prometheus.Counter   // Classifier errors
	PredictionProbability prometheus.Histogram // Distribution of turnover probabilities
	CacheHits             prometheus.Counter
	CacheMisses           prometheus.Counter

	// Model and feed state
	ModelAvailable   prometheus.Gauge // 1 when artifacts loaded, 0 in degraded mode
	ChartSampleRows  prometheus.Gauge // Rows served by the chart endpoint
	FeedClients      prometheus.Gauge // Connected websocket clients
	ReportWrites     prometheus.Counter
	ReportWriteFails prometheus.Counter
}

// New creates and registers all Prometheus metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rf_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		}, []string{"route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rf_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"route"}),
		Predictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "rf_predictions_total",
			Help: "Total number of predictions served",
		}),
		PredictionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "rf_prediction_failures_total",
			Help: "Total number of classifier failures",
		}),
		PredictionProbability: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rf_prediction_probability",
			Help:    "Distribution of predicted turnover probabilities",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "rf_prediction_cache_hits_total",
			Help: "Total number of predictions served from cache",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "rf_prediction_cache_misses_total",
			Help: "Total number of predictions computed by the classifier",
		}),
		ModelAvailable: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rf_model_available",
			Help: "Whether model artifacts are loaded (1) or the service is degraded (0)",
		}),
		ChartSampleRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rf_chart_sample_rows",
			Help: "Number of rows in the chart sample",
		}),
		FeedClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rf_feed_clients",
			Help: "Number of connected prediction feed clients",
		}),
		ReportWrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "rf_report_writes_total",
			Help: "Total number of predictions persisted to the report store",
		}),
		ReportWriteFails: factory.NewCounter(prometheus.CounterOpts{
			Name: "rf_report_write_failures_total",
			Help: "Total number of failed report store writes",
		}),
	}
}

// SetModelState records whether artifacts loaded and how many chart rows are served.
func (m *Metrics) SetModelState(available bool, sampleRows int) {
	if available {
		m.ModelAvailable.Set(1)
	} else {
		m.ModelAvailable.Set(0)
	}
	m.ChartSampleRows.Set(float64(sampleRows))
}
