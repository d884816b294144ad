package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	registry := prometheus.NewRegistry()
	return NewWithRegistry(registry), registry
}

func TestNewWrapper(t *testing.T) {
	metrics, _ := newTestMetrics(t)
	wrapper := NewWrapper(metrics)

	require.NotNil(t, wrapper)
	assert.Same(t, metrics, wrapper.m)
}

func TestMetricsWrapper_PredictionCounters(t *testing.T) {
	metrics, _ := newTestMetrics(t)
	wrapper := NewWrapper(metrics)

	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Predictions))

	wrapper.PredictionsInc()
	wrapper.PredictionsInc()
	wrapper.PredictionFailuresInc()
	wrapper.CacheHitsInc()
	wrapper.CacheMissesInc()
	wrapper.CacheMissesInc()

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Predictions))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PredictionFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.CacheMisses))
}

func TestMetricsWrapper_ScoreHistogram(t *testing.T) {
	metrics, registry := newTestMetrics(t)
	wrapper := NewWrapper(metrics)

	for _, score := range []float64{0.1, 0.45, 0.9} {
		wrapper.PredictionScoreObserve(score)
	}

	families, err := registry.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "rf_prediction_probability" {
			continue
		}
		found = true
		h := mf.GetMetric()[0].GetHistogram()
		assert.Equal(t, uint64(3), h.GetSampleCount())
		assert.InDelta(t, 1.45, h.GetSampleSum(), 1e-9)
	}
	assert.True(t, found, "probability histogram not registered")
}

func TestMetricsWrapper_ObserveRequest(t *testing.T) {
	metrics, registry := newTestMetrics(t)
	wrapper := NewWrapper(metrics)

	wrapper.ObserveRequest("/rf/predict", 200, 3*time.Millisecond)
	wrapper.ObserveRequest("/rf/predict", 200, 5*time.Millisecond)
	wrapper.ObserveRequest("/rf/predict", 400, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/rf/predict", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("/rf/predict", "400")))

	count, err := testutil.GatherAndCount(registry, "rf_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetricsWrapper_Gauges(t *testing.T) {
	metrics, _ := newTestMetrics(t)
	wrapper := NewWrapper(metrics)

	wrapper.SetFeedClients(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.FeedClients))
	wrapper.SetFeedClients(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.FeedClients))

	metrics.SetModelState(true, 200)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ModelAvailable))
	assert.Equal(t, 200.0, testutil.ToFloat64(metrics.ChartSampleRows))

	metrics.SetModelState(false, 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ModelAvailable))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ChartSampleRows))
}

func TestMetricsWrapper_ReportWrite(t *testing.T) {
	metrics, _ := newTestMetrics(t)
	wrapper := NewWrapper(metrics)

	wrapper.ReportWrite(nil)
	wrapper.ReportWrite(nil)
	wrapper.ReportWrite(errors.New("disk full"))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ReportWrites))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ReportWriteFails))
}

func TestNewWithRegistry_DuplicateRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewWithRegistry(registry)

	assert.Panics(t, func() { NewWithRegistry(registry) })
}
