// Package testutil provides artifact fixtures shared by package tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Fixture file names, matching the production defaults.
const (
	ModelFile    = "rf_model.json"
	FeaturesFile = "rf_features.json"
	DataFile     = "turnover_data.csv"
	TargetColumn = "turnover_intention"
)

// FeatureNames is the feature list written by WriteArtifacts.
var FeatureNames = []string{"stress_workload_amount", "stress_org_climate_grievance"}

// ForestJSON is a two-tree forest over FeatureNames.
//
//	tree 0: workload <= 2.5 -> [8 2] else [2 8]
//	tree 1: grievance <= 3.0 -> [9 1] else [3 7]
//
// So (1,1) scores 0.15, (3,2) scores 0.45 and (4,4) scores 0.75.
const ForestJSON = `{
  "version": "fixture-1",
  "n_features": 2,
  "classes": [0, 1],
  "trees": [
    {"nodes": [
      {"feature": 0, "threshold": 2.5, "left": 1, "right": 2},
      {"feature": -1, "left": -1, "right": -1, "value": [8, 2]},
      {"feature": -1, "left": -1, "right": -1, "value": [2, 8]}
    ]},
    {"nodes": [
      {"feature": 1, "threshold": 3.0, "left": 1, "right": 2},
      {"feature": -1, "left": -1, "right": -1, "value": [9, 1]},
      {"feature": -1, "left": -1, "right": -1, "value": [3, 7]}
    ]}
  ]
}`

// DatasetCSV renders a dataset with rows labeled rows plus one row with an
// unknown label, which loaders are expected to skip.
func DatasetCSV(rows int) string {
	var b strings.Builder
	b.WriteString("employee_id,stress_workload_amount,stress_org_climate_grievance,turnover_intention\n")
	for i := 0; i < rows; i++ {
		label := "沒有"
		if i%4 == 0 {
			label = "有"
		}
		fmt.Fprintf(&b, "E%04d,%d,%d,%s\n", i, i%5+1, (i*3)%5+1, label)
	}
	b.WriteString("E9999,3,3,unknown\n")
	return b.String()
}

// Artifacts holds the paths written by WriteArtifacts.
type Artifacts struct {
	Dir          string
	ModelPath    string
	FeaturesPath string
	DataPath     string
}

// WriteArtifacts writes a model, feature list and dataset of rows labeled rows
// into a temporary directory.
func WriteArtifacts(t *testing.T, rows int) Artifacts {
	t.Helper()
	dir := t.TempDir()
	a := Artifacts{
		Dir:          dir,
		ModelPath:    filepath.Join(dir, ModelFile),
		FeaturesPath: filepath.Join(dir, FeaturesFile),
		DataPath:     filepath.Join(dir, DataFile),
	}
	require.NoError(t, os.WriteFile(a.ModelPath, []byte(ForestJSON), 0o600))
	require.NoError(t, os.WriteFile(a.FeaturesPath, []byte(`["`+strings.Join(FeatureNames, `","`)+`"]`), 0o600))
	require.NoError(t, os.WriteFile(a.DataPath, []byte(DatasetCSV(rows)), 0o600))
	return a
}

// Overwrite replaces one artifact file with content.
func Overwrite(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
