// Package dataset loads the labeled survey observations used for the scatter chart.
//
// Only the model's feature columns and the outcome column are read from the CSV
// file. Rows whose outcome is not one of the two known labels, or whose feature
// cells are not numeric, are skipped and counted.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"turnover-rf/internal/common"

	"github.com/rs/zerolog/log"
)

// ErrNotEnoughRows is returned when a sample larger than the dataset is requested.
var ErrNotEnoughRows = errors.New("not enough rows")

// NumericLabelColumn is the chart field carrying the 0/1 outcome.
const NumericLabelColumn = "turnover_numeric"

// Record represents a single labeled observation
type Record struct {
	Features []float64
	Label    string
}

// Dataset is an in-memory table of labeled observations.
type Dataset struct {
	FeatureColumns []string
	TargetColumn   string
	Records        []Record
	Skipped        int
}

// NumericLabel maps an outcome label to its plotting indicator.
func NumericLabel(label string) (int, bool) {
	switch label {
	case common.LabelTurnoverYes:
		return 1, true
	case common.LabelTurnoverNo:
		return 0, true
	default:
		return 0, false
	}
}

// LoadCSV reads the dataset from a CSV file with a header row.
func LoadCSV(path string, featureColumns []string, targetColumn string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	ds, err := Read(file, featureColumns, targetColumn)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}

	log.Info().
		Str("path", path).
		Int("rows", len(ds.Records)).
		Int("skipped", ds.Skipped).
		Msg("Dataset loaded")

	return ds, nil
}

// Read parses CSV content from r.
func Read(r io.Reader, featureColumns []string, targetColumn string) (*Dataset, error) {
	if len(featureColumns) == 0 {
		return nil, errors.New("no feature columns requested")
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	// Map header indices
	indices := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		indices[col] = i
	}

	featureIdx := make([]int, len(featureColumns))
	for i, col := range featureColumns {
		idx, ok := indices[col]
		if !ok {
			return nil, fmt.Errorf("missing feature column %q", col)
		}
		featureIdx[i] = idx
	}
	targetIdx, ok := indices[targetColumn]
	if !ok {
		return nil, fmt.Errorf("missing target column %q", targetColumn)
	}

	ds := &Dataset{
		FeatureColumns: append([]string(nil), featureColumns...),
		TargetColumn:   targetColumn,
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, ok := parseRow(row, featureIdx, targetIdx)
		if !ok {
			ds.Skipped++
			continue
		}
		ds.Records = append(ds.Records, rec)
	}

	if ds.Skipped > 0 {
		log.Warn().Int("skipped", ds.Skipped).Msg("Skipped rows with unknown labels or non-numeric features")
	}
	return ds, nil
}

func parseRow(row []string, featureIdx []int, targetIdx int) (Record, bool) {
	if targetIdx >= len(row) {
		return Record{}, false
	}
	label := strings.TrimSpace(row[targetIdx])
	if _, ok := NumericLabel(label); !ok {
		return Record{}, false
	}

	features := make([]float64, len(featureIdx))
	for i, idx := range featureIdx {
		if idx >= len(row) {
			return Record{}, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		if err != nil {
			return Record{}, false
		}
		features[i] = v
	}
	return Record{Features: features, Label: label}, true
}

// Sample draws n distinct records without replacement. The same seed always
// yields the same records in the same order.
func (d *Dataset) Sample(n int, seed int64) ([]Record, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sample size must be positive, got %d", n)
	}
	if n > len(d.Records) {
		return nil, fmt.Errorf("%w: cannot sample %d from %d", ErrNotEnoughRows, n, len(d.Records))
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(d.Records))

	sample := make([]Record, n)
	for i, idx := range perm[:n] {
		sample[i] = d.Records[idx].clone()
	}
	return sample, nil
}

// Row converts a record into a chart row keyed by column name.
func (d *Dataset) Row(rec Record) map[string]any {
	row := make(map[string]any, len(d.FeatureColumns)+2)
	for i, col := range d.FeatureColumns {
		row[col] = rec.Features[i]
	}
	row[d.TargetColumn] = rec.Label
	if v, ok := NumericLabel(rec.Label); ok {
		row[NumericLabelColumn] = v
	}
	return row
}

func (r Record) clone() Record {
	r.Features = append([]float64(nil), r.Features...)
	return r
}
