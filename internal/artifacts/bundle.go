// Package artifacts loads the trained classifier, its feature list and the
// chart dataset once at startup and exposes them as one read-only Bundle.
//
// Loading never fails hard. When any artifact is missing or malformed the
// returned Bundle is unavailable and carries the cause, so the HTTP layer can
// answer with a model-unavailable error instead of the process exiting.
package artifacts

import (
	"errors"
	"fmt"

	"turnover-rf/internal/dataset"
	"turnover-rf/internal/ml"
)

// RequiredFeatures is the number of inputs accepted by the predict endpoint.
const RequiredFeatures = 2

var (
	// ErrModelUnavailable marks a bundle that failed to load.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrFeatureArity is returned when the feature list, the model and the
	// accepted inputs disagree on the number of features.
	ErrFeatureArity = errors.New("feature arity mismatch")
)

// Bundle is the immutable process-wide model state.
type Bundle struct {
	classifier ml.Classifier
	version    string
	features   []string
	data       *dataset.Dataset
	sample     []dataset.Record
	err        error
}

// New assembles an available bundle, validating arity and drawing the chart sample.
func New(classifier ml.Classifier, version string, features []string, data *dataset.Dataset, sampleSize int, seed int64) (*Bundle, error) {
	if classifier == nil {
		return nil, ml.ErrNoClassifier
	}
	if data == nil {
		return nil, errors.New("dataset is required")
	}
	if len(features) != RequiredFeatures {
		return nil, fmt.Errorf("%w: feature list has %d entries, predict accepts %d", ErrFeatureArity, len(features), RequiredFeatures)
	}
	if n := classifier.NumFeatures(); n != len(features) {
		return nil, fmt.Errorf("%w: model expects %d features, feature list has %d", ErrFeatureArity, n, len(features))
	}

	sample, err := data.Sample(sampleSize, seed)
	if err != nil {
		return nil, fmt.Errorf("draw chart sample: %w", err)
	}

	return &Bundle{
		classifier: classifier,
		version:    version,
		features:   append([]string(nil), features...),
		data:       data,
		sample:     sample,
	}, nil
}

// Unavailable returns a degraded bundle that reports cause on every access.
func Unavailable(cause error) *Bundle {
	if cause == nil {
		cause = errors.New("unknown load failure")
	}
	return &Bundle{err: fmt.Errorf("%w: %w", ErrModelUnavailable, cause)}
}

// Available reports whether the classifier and chart sample loaded.
func (b *Bundle) Available() bool {
	return b != nil && b.err == nil && b.classifier != nil
}

// Err returns the load failure, or nil for an available bundle.
func (b *Bundle) Err() error {
	if b == nil {
		return ErrModelUnavailable
	}
	return b.err
}

// Classifier returns the loaded model, nil when unavailable.
func (b *Bundle) Classifier() ml.Classifier {
	if !b.Available() {
		return nil
	}
	return b.classifier
}

// ModelVersion returns the version string stored in the model artifact.
func (b *Bundle) ModelVersion() string {
	if !b.Available() {
		return ""
	}
	return b.version
}

// FeatureNames returns a copy of the ordered feature list.
func (b *Bundle) FeatureNames() []string {
	if !b.Available() {
		return nil
	}
	return append([]string(nil), b.features...)
}

// SampleSize returns the number of chart rows, zero when unavailable.
func (b *Bundle) SampleSize() int {
	if !b.Available() {
		return 0
	}
	return len(b.sample)
}

// DatasetRows returns the number of labeled rows the sample was drawn from.
func (b *Bundle) DatasetRows() int {
	if !b.Available() {
		return 0
	}
	return len(b.data.Records)
}

// ChartRows serializes the chart sample. Every call returns fresh maps so
// callers may modify them.
func (b *Bundle) ChartRows() []map[string]any {
	if !b.Available() {
		return nil
	}
	rows := make([]map[string]any, len(b.sample))
	for i, rec := range b.sample {
		rows[i] = b.data.Row(rec)
	}
	return rows
}
