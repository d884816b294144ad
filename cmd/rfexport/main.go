// Command rfexport dumps the prediction report store to newline-delimited JSON
// or CSV for offline analysis. Stop the server first: it holds the database lock.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"turnover-rf/internal/common"
	"turnover-rf/internal/storage"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	formatJSONL = "jsonl"
	formatCSV   = "csv"
)

func main() {
	var (
		dataPath   = flag.String("data", os.Getenv(common.EnvReportPath), "Report store directory")
		outputPath = flag.String("output", "", "Output file (stdout when empty)")
		format     = flag.String("format", formatJSONL, "Output format: jsonl or csv")
		days       = flag.Int("days", 0, "Export only the last N days (0 for all)")
		employeeID = flag.String("employee", "", "Export only this employee")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *dataPath == "" {
		log.Fatal().Msg("report store directory is required (-data or REPORT_PATH)")
	}
	if *format != formatJSONL && *format != formatCSV {
		log.Fatal().Str("format", *format).Msg("unsupported format")
	}

	store, err := storage.OpenReadOnly(*dataPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *dataPath).Msg("Failed to open report store")
	}
	defer store.Close()

	var since time.Time
	if *days > 0 {
		since = time.Now().AddDate(0, 0, -*days)
	}

	records, err := selectRecords(store, *employeeID, since, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read report store")
	}
	if len(records) == 0 {
		log.Warn().Msg("No records found matching criteria")
	}

	out := io.Writer(os.Stdout)
	if *outputPath != "" {
		file, err := os.Create(*outputPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create output file")
		}
		defer file.Close()
		out = file
	}

	if *format == formatCSV {
		err = writeCSV(out, records)
	} else {
		err = writeJSONL(out, records)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to write export")
	}

	log.Info().
		Int("records", len(records)).
		Str("format", *format).
		Str("output", *outputPath).
		Msg("Export complete")
}

// recordSource is the read side of the report store used by the export.
type recordSource interface {
	ForEmployee(employeeID string, limit int) ([]storage.PredictionRecord, error)
	InRange(start, end time.Time) ([]storage.PredictionRecord, error)
}

// selectRecords returns matching records oldest first.
func selectRecords(src recordSource, employeeID string, since, until time.Time) ([]storage.PredictionRecord, error) {
	if employeeID == "" {
		return src.InRange(since, until.Add(time.Second))
	}

	newestFirst, err := src.ForEmployee(employeeID, int(^uint(0)>>1))
	if err != nil {
		return nil, err
	}
	records := make([]storage.PredictionRecord, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		if rec := newestFirst[i]; !rec.Timestamp.Before(since) {
			records = append(records, rec)
		}
	}
	return records, nil
}

func writeJSONL(w io.Writer, records []storage.PredictionRecord) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record %d: %w", rec.Seq, err)
		}
	}
	return nil
}

func writeCSV(w io.Writer, records []storage.PredictionRecord) error {
	features := featureColumns(records)

	cw := csv.NewWriter(w)
	header := []string{"seq", "timestamp", "request_id", "employee_id"}
	header = append(header, features...)
	header = append(header, "turnover_probability", "prediction_class", "model_version")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		row := []string{
			strconv.FormatUint(rec.Seq, 10),
			rec.Timestamp.UTC().Format(time.RFC3339),
			rec.RequestID,
			rec.EmployeeID,
		}
		for _, name := range features {
			v, ok := rec.Features[name]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		row = append(row,
			strconv.FormatFloat(rec.Probability, 'g', -1, 64),
			strconv.Itoa(rec.Class),
			rec.ModelVersion,
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// featureColumns returns the sorted union of feature names across records.
func featureColumns(records []storage.PredictionRecord) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for name := range rec.Features {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
