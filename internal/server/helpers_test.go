package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"turnover-rf/internal/artifacts"
	"turnover-rf/internal/ml"
	"turnover-rf/internal/testutil"

	"github.com/stretchr/testify/require"
)

func loadBundle(t *testing.T) *artifacts.Bundle {
	t.Helper()
	a := testutil.WriteArtifacts(t, 300)
	bundle := artifacts.Load(artifacts.Options{
		ModelPath:    a.ModelPath,
		FeaturesPath: a.FeaturesPath,
		DataPath:     a.DataPath,
		TargetColumn: testutil.TargetColumn,
		SampleSize:   200,
		SampleSeed:   42,
	})
	require.True(t, bundle.Available(), "fixture bundle failed to load: %v", bundle.Err())
	return bundle
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Bundle == nil {
		opts.Bundle = loadBundle(t)
	}
	s, err := New(opts)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

type panicScorer struct{}

func (panicScorer) Score(context.Context, []float64) (ml.Prediction, error) {
	panic("scorer exploded")
}

type errScorer struct{ err error }

func (e errScorer) Score(context.Context, []float64) (ml.Prediction, error) {
	return ml.Prediction{}, e.err
}

func newRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func httptestDo(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	return serve(s, newRequest(method, target))
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
