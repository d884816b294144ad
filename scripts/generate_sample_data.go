// Generates a synthetic survey dataset in the layout the server reads, for
// local runs without the real survey export:
//
//	go run ./scripts -rows 1500 -out models/turnover_data.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strconv"

	"turnover-rf/internal/common"
)

func main() {
	var (
		outPath   = flag.String("out", "models/turnover_data.csv", "Output CSV path")
		rows      = flag.Int("rows", 1500, "Number of respondents to generate")
		seed      = flag.Int64("seed", 7, "Random seed")
		unlabeled = flag.Float64("unlabeled", 0, "Fraction of rows with a blank outcome")
	)
	flag.Parse()

	if *rows < common.DefaultSampleSize {
		log.Fatalf("need at least %d rows for the chart sample, got %d", common.DefaultSampleSize, *rows)
	}

	fmt.Printf("Generating survey data...\n")
	fmt.Printf("  Rows: %d\n", *rows)
	fmt.Printf("  Seed: %d\n", *seed)
	fmt.Printf("  Output: %s\n", *outPath)

	file, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	defer file.Close()

	yes, err := generateSurvey(file, *rows, *seed, *unlabeled)
	if err != nil {
		log.Fatalf("Failed to generate data: %v", err)
	}

	fmt.Printf("✓ Generated %d respondents (%d with turnover intention)\n", *rows, yes)
}

func generateSurvey(file *os.File, rows int, seed int64, unlabeled float64) (int, error) {
	rng := rand.New(rand.NewSource(seed))

	// Logistic response model: intention rises with both stress scores
	intercept := -4.2
	workloadWeight := 0.7
	grievanceWeight := 0.75
	noise := 0.6

	w := csv.NewWriter(file)
	header := []string{"employee_id", "stress_workload_amount", "stress_org_climate_grievance", common.DefaultTargetColumn}
	if err := w.Write(header); err != nil {
		return 0, err
	}

	yes := 0
	for i := 0; i < rows; i++ {
		// Likert answers 1..5
		workload := 1 + rng.Intn(5)
		grievance := 1 + rng.Intn(5)

		z := intercept + workloadWeight*float64(workload) + grievanceWeight*float64(grievance) + rng.NormFloat64()*noise
		p := 1 / (1 + math.Exp(-z))

		label := common.LabelTurnoverNo
		if rng.Float64() < p {
			label = common.LabelTurnoverYes
		}
		if rng.Float64() < unlabeled {
			label = ""
		} else if label == common.LabelTurnoverYes {
			yes++
		}

		record := []string{
			fmt.Sprintf("E%04d", i+1),
			strconv.Itoa(workload),
			strconv.Itoa(grievance),
			label,
		}
		if err := w.Write(record); err != nil {
			return 0, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	w.Flush()
	return yes, w.Error()
}
