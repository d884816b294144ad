// Package client is a small REST client for the turnover prediction service.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"turnover-rf/internal/api"

	"github.com/go-resty/resty/v2"
)

// APIError is returned for non-2xx responses.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("rf api: status %d: %s", e.Status, e.Message)
}

type Client struct {
	base string
	rest *resty.Client
}

func New(base string, timeout time.Duration) *Client {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(5 * time.Second) // default fallback
	}
	r.SetHeader("Accept", "application/json")
	return &Client{base: strings.TrimRight(base, "/"), rest: r}
}

// Predict scores one record. An empty employeeID skips the report store.
func (c *Client) Predict(ctx context.Context, f1, f2 float64, employeeID string) (api.PredictResponse, error) {
	params := map[string]string{
		"f1": strconv.FormatFloat(f1, 'f', -1, 64),
		"f2": strconv.FormatFloat(f2, 'f', -1, 64),
	}
	if employeeID != "" {
		params["employee_id"] = employeeID
	}

	var out api.PredictResponse
	err := c.get(ctx, "/rf/predict", params, &out)
	return out, err
}

func (c *Client) ChartData(ctx context.Context) (api.ChartDataResponse, error) {
	var out api.ChartDataResponse
	err := c.get(ctx, "/rf/chart-data", nil, &out)
	return out, err
}

func (c *Client) Info(ctx context.Context) (api.InfoResponse, error) {
	var out api.InfoResponse
	err := c.get(ctx, "/rf/info", nil, &out)
	return out, err
}

// Report lists stored predictions, newest first. A zero limit uses the server default.
func (c *Client) Report(ctx context.Context, limit int, employeeID string) (api.ReportResponse, error) {
	params := map[string]string{}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	if employeeID != "" {
		params["employee_id"] = employeeID
	}

	var out api.ReportResponse
	err := c.get(ctx, "/rf/report", params, &out)
	return out, err
}

// Health returns the health document. A degraded server is not an error;
// check ModelLoaded.
func (c *Client) Health(ctx context.Context) (api.HealthResponse, error) {
	var out api.HealthResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&out).
		Get(c.base + "/health")
	if err != nil {
		return out, fmt.Errorf("request failed: %w", err)
	}
	if code := resp.StatusCode(); code != http.StatusOK && code != http.StatusServiceUnavailable {
		return out, &APIError{Status: code, Message: resp.String()}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, result any) error {
	apiErr := &api.ErrorResponse{}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(result).
		SetError(apiErr).
		Get(c.base + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.IsError() || resp.StatusCode() != http.StatusOK {
		msg := apiErr.Error
		if msg == "" {
			msg = resp.String()
		}
		return &APIError{Status: resp.StatusCode(), Message: msg}
	}
	return nil
}
