package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() (*mux.Router, error) {
	static, err := subDir(webFS, staticDir)
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.Use(s.observe)

	// Full paths only. A /rf subrouter answers 404 for a wrong method.
	r.Handle("/rf", http.RedirectHandler("/rf/", http.StatusMovedPermanently)).Methods(http.MethodGet)
	r.HandleFunc("/rf/", s.handlePage).Methods(http.MethodGet)
	r.HandleFunc("/rf/predict", s.handlePredict).Methods(http.MethodGet)
	r.HandleFunc("/rf/chart-data", s.handleChartData).Methods(http.MethodGet)
	r.HandleFunc("/rf/info", s.handleInfo).Methods(http.MethodGet)
	r.HandleFunc("/rf/report", s.handleReport).Methods(http.MethodGet)
	if s.feed != nil {
		r.Handle("/rf/ws", s.feed).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	return r, nil
}
