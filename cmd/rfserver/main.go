package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"turnover-rf/internal/artifacts"
	"turnover-rf/internal/cfg"
	"turnover-rf/internal/common"
	"turnover-rf/internal/feed"
	"turnover-rf/internal/logging"
	"turnover-rf/internal/metrics"
	"turnover-rf/internal/ml"
	"turnover-rf/internal/server"
	"turnover-rf/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	loadDotEnv()

	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	logCloser, err := logging.Setup(logging.Options{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		File:       c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("logging setup failed")
	}
	defer logCloser.Close()

	m := metrics.New()
	mw := metrics.NewWrapper(m)

	bundle := loadArtifacts(c)
	m.SetModelState(bundle.Available(), bundle.SampleSize())

	opts := server.Options{
		Port:         c.Port,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		Bundle:       bundle,
		Metrics:      mw,
	}

	if bundle.Available() {
		scorer, err := ml.NewScorer(bundle.Classifier(), c.CacheSize, mw)
		if err != nil {
			log.Fatal().Err(err).Msg("scorer initialization failed")
		}
		opts.Scorer = scorer
	}

	if store := initializeStorage(c); store != nil {
		defer store.Close()
		opts.Store = store
	}

	predictionFeed := feed.New(
		feed.WithHello(server.FeedHello(bundle)),
		feed.WithClientCounter(mw.SetFeedClients),
		feed.WithCheckOrigin(func(r *http.Request) bool { return c.OriginAllowed(r.Header.Get("Origin")) }),
	)
	if err := predictionFeed.Start(); err != nil {
		log.Fatal().Err(err).Msg("prediction feed failed to start")
	}
	defer predictionFeed.Stop()
	opts.Feed = predictionFeed

	srv, err := server.New(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("server initialization failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Start()
	}()

	waitForShutdown(ctx, cancel, srv, errs)
}

// loadDotEnv loads a .env file when present. A missing file is not an error.
func loadDotEnv() {
	path := os.Getenv(common.EnvDotEnvFile)
	if path == "" {
		path = common.DefaultDotEnvFile
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("path", path).Msg("failed to load env file")
	}
}

func loadArtifacts(c cfg.Settings) *artifacts.Bundle {
	return artifacts.Load(artifacts.Options{
		ModelPath:    c.ModelPath(),
		FeaturesPath: c.FeaturesPath(),
		DataPath:     c.DataPath(),
		TargetColumn: c.TargetColumn,
		SampleSize:   c.SampleSize,
		SampleSeed:   c.SampleSeed,
	})
}

// initializeStorage opens the report store if REPORT_PATH is configured
func initializeStorage(c cfg.Settings) *storage.Store {
	if c.ReportPath == "" {
		return nil
	}
	if err := os.MkdirAll(c.ReportPath, 0o755); err != nil {
		log.Warn().Err(err).Msg("report directory unavailable, continuing without report store")
		return nil
	}
	store, err := storage.New(c.ReportPath)
	if err != nil {
		log.Warn().Err(err).Msg("storage initialization failed, continuing without report store")
		return nil
	}
	log.Info().Str("path", store.Path()).Msg("prediction report store opened")
	return store
}

// waitForShutdown waits for a signal or a server failure and shuts down gracefully
func waitForShutdown(ctx context.Context, cancel context.CancelFunc, srv *server.Server, errs <-chan error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info().Msg("shutdown signal received")
	case err := <-errs:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("context canceled")
	}

	log.Info().Msg("shutting down gracefully...")
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), common.ShutdownTimeoutSec*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown timeout, forcing exit")
		return
	}
	log.Info().Msg("server stopped")
}
