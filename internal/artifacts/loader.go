package artifacts

import (
	"path/filepath"

	"turnover-rf/internal/dataset"
	"turnover-rf/internal/ml"

	"github.com/rs/zerolog/log"
)

// Options locates the artifacts and configures the chart sample.
type Options struct {
	ModelPath    string
	FeaturesPath string
	DataPath     string
	TargetColumn string
	SampleSize   int
	SampleSeed   int64
}

// PathsIn builds artifact paths relative to an install directory.
func PathsIn(dir, modelFile, featuresFile, dataFile string) Options {
	return Options{
		ModelPath:    filepath.Join(dir, modelFile),
		FeaturesPath: filepath.Join(dir, featuresFile),
		DataPath:     filepath.Join(dir, dataFile),
	}
}

// Load reads all artifacts. It never returns nil; check Available on the result.
func Load(opts Options) *Bundle {
	forest, err := ml.LoadForest(opts.ModelPath)
	if err != nil {
		return degraded("model", err)
	}

	features, err := ml.LoadFeatureNames(opts.FeaturesPath)
	if err != nil {
		return degraded("feature list", err)
	}

	data, err := dataset.LoadCSV(opts.DataPath, features, opts.TargetColumn)
	if err != nil {
		return degraded("dataset", err)
	}

	bundle, err := New(forest, forest.Version, features, data, opts.SampleSize, opts.SampleSeed)
	if err != nil {
		return degraded("bundle", err)
	}

	log.Info().
		Str("model_path", opts.ModelPath).
		Str("model_version", forest.Version).
		Int("trees", len(forest.Trees)).
		Strs("features", features).
		Int("dataset_rows", bundle.DatasetRows()).
		Int("sample_rows", bundle.SampleSize()).
		Msg("Model artifacts loaded successfully")

	return bundle
}

func degraded(stage string, err error) *Bundle {
	log.Error().
		Err(err).
		Str("stage", stage).
		Msg("Failed to load model artifacts, prediction and chart endpoints are disabled")
	return Unavailable(err)
}
