package server

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"turnover-rf/internal/common"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned for query parameters that cannot be parsed.
var ErrInvalidInput = errors.New("invalid input")

// featureParams are the predict query parameters in feature-list order.
var featureParams = []string{"f1", "f2"}

// parseFeature reads one numeric parameter. Absent or blank values take the
// default; anything else must be a finite number.
func parseFeature(q url.Values, name string) (float64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return common.DefaultFeatureValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", ErrInvalidInput, name, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be finite, got %q", ErrInvalidInput, name, raw)
	}
	return v, nil
}

func parseFeatures(q url.Values) ([]float64, error) {
	values := make([]float64, len(featureParams))
	for i, name := range featureParams {
		v, err := parseFeature(q, name)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// parseLimit reads the report limit, clamping large values to MaxReportLimit.
func parseLimit(q url.Values) (int, error) {
	raw := strings.TrimSpace(q.Get("limit"))
	if raw == "" {
		return common.DefaultReportLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidInput, common.ErrMsgInvalidReportLimit)
	}
	if n > common.MaxReportLimit {
		n = common.MaxReportLimit
	}
	return n, nil
}

// toPercent converts a probability to a percentage rounded half away from
// zero to two decimals, on the shortest decimal form of p.
func toPercent(p float64) float64 {
	return decimal.NewFromFloat(p).Shift(2).Round(2).InexactFloat64()
}
