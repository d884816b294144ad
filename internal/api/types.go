// Package api defines the JSON documents exchanged by the HTTP server and the
// probe client.
package api

import "time"

// ErrorResponse is the body of every non-200 JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PredictResponse is returned by GET /rf/predict.
type PredictResponse struct {
	FeatureNames          []string  `json:"feature_names"`
	FeatureValues         []float64 `json:"feature_values"`
	PredictionProbability float64   `json:"prediction_probability"` // percent, two decimals
	PredictionClass       int       `json:"prediction_class"`
}

// ChartDataResponse is returned by GET /rf/chart-data.
type ChartDataResponse struct {
	Data   []map[string]any `json:"data"`
	XLabel string           `json:"x_label"`
	YLabel string           `json:"y_label"`
}

// InfoResponse is returned by GET /rf/info.
type InfoResponse struct {
	Evaluation Evaluation  `json:"evaluation"`
	Dataset    DatasetInfo `json:"dataset"`
	ChartInfo  ChartInfo   `json:"chart_info"`
}

type Evaluation struct {
	Recall  string `json:"recall"`
	F1Score string `json:"f1_score"`
	AUC     string `json:"auc"`
}

type DatasetInfo struct {
	Name         string `json:"name"`
	TotalSamples int    `json:"total_samples"`
	TrainSize    int    `json:"train_size"`
	TestSize     int    `json:"test_size"`
	Target       string `json:"target"`
}

type ChartInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"` // contains legend markup
}

// ReportEntry is one persisted prediction.
type ReportEntry struct {
	Seq                   uint64             `json:"seq"`
	RequestID             string             `json:"request_id,omitempty"`
	EmployeeID            string             `json:"employee_id,omitempty"`
	Features              map[string]float64 `json:"features"`
	PredictionProbability float64            `json:"prediction_probability"`
	PredictionClass       int                `json:"prediction_class"`
	ModelVersion          string             `json:"model_version,omitempty"`
	Timestamp             time.Time          `json:"timestamp"`
}

// ReportResponse is returned by GET /rf/report.
type ReportResponse struct {
	Predictions []ReportEntry `json:"predictions"`
	Total       int           `json:"total"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	ModelLoaded   bool   `json:"model_loaded"`
	ModelVersion  string `json:"model_version,omitempty"`
	SampleRows    int    `json:"sample_rows"`
	ReportEnabled bool   `json:"report_enabled"`
	FeedClients   int    `json:"feed_clients"`
	Error         string `json:"error,omitempty"`
}

// FeedPrediction is the payload of prediction events on the live feed.
type FeedPrediction struct {
	RequestID  string `json:"request_id,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
	PredictResponse
}

// FeedHello is the payload sent to feed clients on connect.
type FeedHello struct {
	ModelLoaded  bool   `json:"model_loaded"`
	ModelVersion string `json:"model_version,omitempty"`
}
