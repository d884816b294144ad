// Package ml provides the classifier used by the turnover service.
// It includes the random forest artifact decoder, the feature-name list loader
// and a cached scorer that wraps any classifier exposing probability scoring.
//
// Classifiers are loaded once at startup and are read-only afterwards, so a
// single instance is shared by all request goroutines.
package ml

// Classifier defines the scoring capability of a trained model.
// Implementations must be safe for concurrent use.
type Classifier interface {
	// PredictProba returns one probability per class for a single record.
	// The record must hold NumFeatures values in training order.
	PredictProba(features []float64) ([]float64, error)

	// NumFeatures reports how many inputs the model was trained with.
	NumFeatures() int
}

// MetricsInterface defines metrics methods needed by the scorer
type MetricsInterface interface {
	PredictionsInc()
	PredictionFailuresInc()
	PredictionScoreObserve(float64)
	CacheHitsInc()
	CacheMissesInc()
}
