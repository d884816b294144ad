package ml

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// PositiveClass is the index of the turnover=yes class in a probability vector.
const PositiveClass = 1

// ErrNoClassifier is returned when the scorer is used without a model.
var ErrNoClassifier = errors.New("classifier not available")

// Prediction is the scored result for one record.
type Prediction struct {
	Probabilities []float64
	Positive      float64 // probability of PositiveClass
	Class         int     // argmax of Probabilities, ties resolve to the lower index
}

// Scorer wraps a Classifier with result caching and metrics.
// Classifiers are deterministic, so cached entries never go stale and the
// cache only bounds memory.
type Scorer struct {
	classifier Classifier
	cache      *lru.Cache[string, Prediction]
	metrics    MetricsInterface
}

// NewScorer creates a scorer. A cacheSize of zero disables caching.
func NewScorer(classifier Classifier, cacheSize int, metrics MetricsInterface) (*Scorer, error) {
	if classifier == nil {
		return nil, ErrNoClassifier
	}

	s := &Scorer{
		classifier: classifier,
		metrics:    metrics,
	}
	if cacheSize > 0 {
		cache, err := lru.New[string, Prediction](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create prediction cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Score returns the prediction for a single record.
func (s *Scorer) Score(ctx context.Context, features []float64) (Prediction, error) {
	select {
	case <-ctx.Done():
		return Prediction{}, ctx.Err()
	default:
	}

	key := cacheKey(features)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			s.recordCacheHit()
			s.recordPrediction(cached.Positive)
			return cached.clone(), nil
		}
		s.recordCacheMiss()
	}

	proba, err := s.classifier.PredictProba(features)
	if err != nil {
		s.recordFailure()
		return Prediction{}, err
	}
	if len(proba) <= PositiveClass {
		s.recordFailure()
		return Prediction{}, fmt.Errorf("expected at least %d class probabilities, got %d", PositiveClass+1, len(proba))
	}

	pred := Prediction{
		Probabilities: proba,
		Positive:      proba[PositiveClass],
		Class:         argmax(proba),
	}
	if s.cache != nil {
		s.cache.Add(key, pred.clone())
	}

	s.recordPrediction(pred.Positive)
	return pred, nil
}

// CacheLen returns the number of cached predictions.
func (s *Scorer) CacheLen() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Len()
}

func (p Prediction) clone() Prediction {
	p.Probabilities = append([]float64(nil), p.Probabilities...)
	return p
}

func cacheKey(features []float64) string {
	var b strings.Builder
	for i, v := range features {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func (s *Scorer) recordPrediction(score float64) {
	if s.metrics != nil {
		s.metrics.PredictionsInc()
		s.metrics.PredictionScoreObserve(score)
	}
}

func (s *Scorer) recordFailure() {
	if s.metrics != nil {
		s.metrics.PredictionFailuresInc()
	}
}

func (s *Scorer) recordCacheHit() {
	if s.metrics != nil {
		s.metrics.CacheHitsInc()
	}
}

func (s *Scorer) recordCacheMiss() {
	if s.metrics != nil {
		s.metrics.CacheMissesInc()
	}
}
