package server

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"turnover-rf/internal/api"
	"turnover-rf/internal/artifacts"
	"turnover-rf/internal/common"
	"turnover-rf/internal/feed"
	"turnover-rf/internal/ml"
	"turnover-rf/internal/storage"

	"github.com/rs/zerolog/log"
)

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		ModelLoaded:  s.bundle.Available(),
		ModelVersion: s.bundle.ModelVersion(),
		FeatureNames: s.bundle.FeatureNames(),
		XLabel:       ChartXLabel,
		YLabel:       ChartYLabel,
		FeedEnabled:  s.feed != nil,
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		log.Error().Err(err).Msg("Failed to render page")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if !s.bundle.Available() || s.scorer == nil {
		writeError(w, http.StatusInternalServerError, common.ErrMsgModelNotLoaded)
		return
	}

	q := r.URL.Query()
	values, err := parseFeatures(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pred, err := s.scorer.Score(r.Context(), values)
	if err != nil {
		log.Warn().Err(err).Floats64("features", values).Msg("Prediction failed")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := api.PredictResponse{
		FeatureNames:          s.bundle.FeatureNames(),
		FeatureValues:         values,
		PredictionProbability: toPercent(pred.Positive),
		PredictionClass:       pred.Class,
	}

	requestID := RequestIDFromContext(r.Context())
	employeeID := strings.TrimSpace(q.Get("employee_id"))
	if employeeID != "" && s.store != nil {
		s.recordPrediction(requestID, employeeID, resp, pred)
	}
	if s.feed != nil {
		s.feed.Broadcast(feed.EventPrediction, api.FeedPrediction{
			RequestID:       requestID,
			EmployeeID:      employeeID,
			PredictResponse: resp,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// recordPrediction persists a prediction. Failures are logged and counted but
// never fail the request.
func (s *Server) recordPrediction(requestID, employeeID string, resp api.PredictResponse, pred ml.Prediction) {
	features := make(map[string]float64, len(resp.FeatureNames))
	for i, name := range resp.FeatureNames {
		features[name] = resp.FeatureValues[i]
	}

	_, err := s.store.StorePrediction(storage.PredictionRecord{
		RequestID:    requestID,
		EmployeeID:   employeeID,
		Features:     features,
		Probability:  pred.Positive,
		Class:        pred.Class,
		ModelVersion: s.bundle.ModelVersion(),
		Timestamp:    time.Now().UTC(),
	})
	if s.metrics != nil {
		s.metrics.ReportWrite(err)
	}
	if err != nil {
		log.Error().Err(err).Str("employee_id", employeeID).Msg("Failed to store prediction")
	}
}

func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	rows := s.bundle.ChartRows()
	if len(rows) == 0 {
		writeError(w, http.StatusInternalServerError, common.ErrMsgChartNotLoaded)
		return
	}

	writeJSON(w, http.StatusOK, api.ChartDataResponse{
		Data:   rows,
		XLabel: ChartXLabel,
		YLabel: ChartYLabel,
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ModelInfo())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, common.ErrMsgReportDisabled)
		return
	}

	q := r.URL.Query()
	limit, err := parseLimit(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		records []storage.PredictionRecord
		total   int
	)
	if employeeID := strings.TrimSpace(q.Get("employee_id")); employeeID != "" {
		records, err = s.store.ForEmployee(employeeID, limit)
		if err == nil {
			total, err = s.store.CountEmployee(employeeID)
		}
	} else {
		records, err = s.store.Recent(limit)
		if err == nil {
			total, err = s.store.Count()
		}
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to read prediction report")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entries := make([]api.ReportEntry, len(records))
	for i, rec := range records {
		entries[i] = api.ReportEntry{
			Seq:                   rec.Seq,
			RequestID:             rec.RequestID,
			EmployeeID:            rec.EmployeeID,
			Features:              rec.Features,
			PredictionProbability: toPercent(rec.Probability),
			PredictionClass:       rec.Class,
			ModelVersion:          rec.ModelVersion,
			Timestamp:             rec.Timestamp,
		}
	}

	writeJSON(w, http.StatusOK, api.ReportResponse{Predictions: entries, Total: total})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		Status:        "ok",
		ModelLoaded:   s.bundle.Available(),
		ModelVersion:  s.bundle.ModelVersion(),
		SampleRows:    s.bundle.SampleSize(),
		ReportEnabled: s.store != nil,
	}
	if s.feed != nil {
		resp.FeedClients = s.feed.Clients()
	}

	status := http.StatusOK
	if !resp.ModelLoaded {
		status = http.StatusServiceUnavailable
		resp.Status = "degraded"
		if err := s.bundle.Err(); err != nil {
			resp.Error = err.Error()
		}
	}

	writeJSON(w, status, resp)
}

// FeedHello builds the payload sent to feed clients on connect.
func FeedHello(bundle *artifacts.Bundle) func() any {
	return func() any {
		return api.FeedHello{
			ModelLoaded:  bundle.Available(),
			ModelVersion: bundle.ModelVersion(),
		}
	}
}
