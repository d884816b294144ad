package metrics

import (
	"strconv"
	"time"
)

// MetricsWrapper adapts Metrics to the narrow interfaces used by the scorer,
// the HTTP middleware and the prediction feed.
type MetricsWrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *MetricsWrapper {
	return &MetricsWrapper{m: m}
}

func (w *MetricsWrapper) PredictionsInc() {
	w.m.Predictions.Inc()
}

func (w *MetricsWrapper) PredictionFailuresInc() {
	w.m.PredictionFailures.Inc()
}

func (w *MetricsWrapper) PredictionScoreObserve(score float64) {
	w.m.PredictionProbability.Observe(score)
}

func (w *MetricsWrapper) CacheHitsInc() {
	w.m.CacheHits.Inc()
}

func (w *MetricsWrapper) CacheMissesInc() {
	w.m.CacheMisses.Inc()
}

// ObserveRequest records one served HTTP request.
func (w *MetricsWrapper) ObserveRequest(route string, status int, elapsed time.Duration) {
	w.m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	w.m.HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// SetFeedClients updates the connected feed client gauge.
func (w *MetricsWrapper) SetFeedClients(n int) {
	w.m.FeedClients.Set(float64(n))
}

// ReportWrite records the outcome of persisting one prediction.
func (w *MetricsWrapper) ReportWrite(err error) {
	if err != nil {
		w.m.ReportWriteFails.Inc()
		return
	}
	w.m.ReportWrites.Inc()
}
