// Package server exposes the turnover classifier over HTTP.
//
// Routes live under /rf: the page, predict, chart-data and info endpoints,
// plus the prediction report and live feed. /health, /metrics and the embedded
// static assets are mounted at the root.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"turnover-rf/internal/artifacts"
	"turnover-rf/internal/ml"
	"turnover-rf/internal/storage"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Scorer produces predictions for one feature record.
type Scorer interface {
	Score(ctx context.Context, features []float64) (ml.Prediction, error)
}

// ReportStore persists predictions that carry an employee id.
type ReportStore interface {
	StorePrediction(record storage.PredictionRecord) (storage.PredictionRecord, error)
	Recent(limit int) ([]storage.PredictionRecord, error)
	ForEmployee(employeeID string, limit int) ([]storage.PredictionRecord, error)
	Count() (int, error)
	CountEmployee(employeeID string) (int, error)
}

// Feed publishes predictions to live clients and serves the upgrade endpoint.
type Feed interface {
	http.Handler
	Broadcast(eventType string, data any)
	Clients() int
}

// Observer records request and report metrics.
type Observer interface {
	ObserveRequest(route string, status int, elapsed time.Duration)
	ReportWrite(err error)
}

// Options wires the server's dependencies. Only Bundle is required; nil
// optional dependencies disable the matching feature.
type Options struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Bundle   *artifacts.Bundle
	Scorer   Scorer
	Store    ReportStore
	Feed     Feed
	Metrics  Observer
	Gatherer prometheus.Gatherer
}

// Server serves the turnover prediction API.
type Server struct {
	bundle   *artifacts.Bundle
	scorer   Scorer
	store    ReportStore
	feed     Feed
	metrics  Observer
	gatherer prometheus.Gatherer

	page    *template.Template
	router  *mux.Router
	handler http.Handler
	server  *http.Server
}

// New builds the router and HTTP server.
func New(opts Options) (*Server, error) {
	if opts.Bundle == nil {
		return nil, errors.New("server: bundle is required")
	}

	page, err := parsePage()
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	s := &Server{
		bundle:   opts.Bundle,
		scorer:   opts.Scorer,
		store:    opts.Store,
		feed:     opts.Feed,
		metrics:  opts.Metrics,
		gatherer: opts.Gatherer,
		page:     page,
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.scorer == nil && s.bundle.Available() {
		scorer, err := ml.NewScorer(s.bundle.Classifier(), 0, nil)
		if err != nil {
			return nil, err
		}
		s.scorer = scorer
	}

	router, err := s.routes()
	if err != nil {
		return nil, err
	}
	s.router = router
	s.handler = chain(requestID, logRequests, recoverPanics)(s.router)

	readTimeout, writeTimeout := opts.ReadTimeout, opts.WriteTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start serves until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	log.Info().
		Str("addr", s.server.Addr).
		Bool("model_loaded", s.bundle.Available()).
		Bool("report_enabled", s.store != nil).
		Bool("feed_enabled", s.feed != nil).
		Msg("Starting turnover prediction server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
