// Command rfprobe calls a running turnover prediction service and prints the
// results, for smoke-testing deployments.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"turnover-rf/internal/client"
	"turnover-rf/internal/common"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load() // optional .env with RF_BASE_URL / RF_TIMEOUT

	var (
		baseURL    = flag.String("url", envOrDefault(common.EnvProbeBaseURL, common.DefaultProbeBaseURL), "Service base URL")
		timeout    = flag.Duration("timeout", envDuration(common.EnvProbeTimeout, common.DefaultProbeTimeoutSec*time.Second), "Request timeout")
		f1         = flag.Float64("f1", 3, "Workload stress score")
		f2         = flag.Float64("f2", 2, "Organizational climate grievance stress score")
		employeeID = flag.String("employee", "", "Employee id to record in the report (optional)")
		chartRows  = flag.Int("rows", 3, "Number of chart rows to print")
		report     = flag.Bool("report", false, "Print the prediction report")
		logLevel   = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	)
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	c := client.New(*baseURL, *timeout)
	ctx, cancel := context.WithTimeout(context.Background(), 4*(*timeout)+time.Second)
	defer cancel()

	if err := run(ctx, c, *f1, *f2, *employeeID, *chartRows, *report); err != nil {
		log.Fatal().Err(err).Str("url", *baseURL).Msg("probe failed")
	}
}

func run(ctx context.Context, c *client.Client, f1, f2 float64, employeeID string, rows int, withReport bool) error {
	health, err := c.Health(ctx)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	log.Info().
		Str("status", health.Status).
		Bool("model_loaded", health.ModelLoaded).
		Str("model_version", health.ModelVersion).
		Int("sample_rows", health.SampleRows).
		Msg("health")

	info, err := c.Info(ctx)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	printJSON("info", info)

	pred, err := c.Predict(ctx, f1, f2, employeeID)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}
	printJSON("predict", pred)

	chart, err := c.ChartData(ctx)
	if err != nil {
		return fmt.Errorf("chart-data: %w", err)
	}
	fmt.Printf("=== chart-data: %d rows (%s / %s) ===\n", len(chart.Data), chart.XLabel, chart.YLabel)
	for i := 0; i < rows && i < len(chart.Data); i++ {
		printJSON("row "+strconv.Itoa(i), chart.Data[i])
	}

	if withReport {
		rep, err := c.Report(ctx, 0, employeeID)
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}
		printJSON("report", rep)
	}
	return nil
}

func printJSON(title string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error().Err(err).Str("section", title).Msg("failed to encode output")
		return
	}
	fmt.Printf("=== %s ===\n%s\n", title, data)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
