package ml

import (
	"strings"
	"sync"
	"testing"

	"turnover-rf/internal/testutil"
)

// MockMetrics implements MetricsInterface for testing
type MockMetrics struct {
	mu          sync.Mutex
	predictions int
	failures    int
	cacheHits   int
	cacheMisses int
	scores      []float64
}

func (m *MockMetrics) PredictionsInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions++
}

func (m *MockMetrics) PredictionFailuresInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

func (m *MockMetrics) PredictionScoreObserve(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = append(m.scores, v)
}

func (m *MockMetrics) CacheHitsInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits++
}

func (m *MockMetrics) CacheMissesInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheMisses++
}

func mustForest(t *testing.T) *Forest {
	t.Helper()
	f, err := DecodeForest(strings.NewReader(testutil.ForestJSON))
	if err != nil {
		t.Fatalf("decode test forest: %v", err)
	}
	return f
}

type failingClassifier struct {
	err error
}

func (f failingClassifier) PredictProba([]float64) ([]float64, error) { return nil, f.err }
func (f failingClassifier) NumFeatures() int                         { return 2 }

type countingClassifier struct {
	mu    sync.Mutex
	calls int
	inner Classifier
}

func (c *countingClassifier) PredictProba(features []float64) ([]float64, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.inner.PredictProba(features)
}

func (c *countingClassifier) NumFeatures() int { return c.inner.NumFeatures() }
