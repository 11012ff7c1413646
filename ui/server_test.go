package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hypolab/adapters/api"
	"hypolab/app"
	"hypolab/domain/stats"
	"hypolab/internal"
	"hypolab/internal/config"
	"hypolab/ui/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	values []float64
}

func (s stubSource) Columns(ctx context.Context) ([]string, error) {
	return []string{"Minutes"}, nil
}

func (s stubSource) ReadColumn(ctx context.Context, name string) ([]float64, error) {
	return s.values, nil
}

func newTestServer(t *testing.T, withData bool) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := internal.NewLogger(internal.LogLevelError)
	inference := app.NewInferenceService(config.Default(), logger)
	scenarios, err := app.NewScenarioService(inference)
	require.NoError(t, err)

	var datasets *app.DatasetService
	if withData {
		datasets = app.NewDatasetService(stubSource{values: []float64{150, 162, 139, 171, 158, 149, 166, 144}}, "Minutes", inference, logger)
	}

	return NewServer(Deps{
		Inference: inference,
		Datasets:  datasets,
		Scenarios: scenarios,
		API:       api.NewRouter(inference, logger),
		Logger:    logger,
	})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["dataset_configured"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, "trace-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "trace-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestScenarioEndpoints(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/scenarios", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Scenarios []ScenarioListItem `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Scenarios, 10)

	rec = do(t, s, http.MethodGet, "/scenarios/speeding-judge", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page ScenarioPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Contains(t, page.DescriptionHTML, "<strong>25</strong>")
	require.NotNil(t, page.Outcome)
	require.Len(t, page.Outcome.Tests, 1)
	assert.InDelta(t, 2.0, page.Outcome.Tests[0].Statistic, 1e-9)

	rec = do(t, s, http.MethodGet, "/scenarios/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestDatasetEndpoints(t *testing.T) {
	s := newTestServer(t, true)

	rec := do(t, s, http.MethodGet, "/dataset/summary", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, float64(8), summary["count"])

	rec = do(t, s, http.MethodGet, "/dataset/columns", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Minutes")

	rec = do(t, s, http.MethodPost, "/dataset/evaluate", `{"config": {"null_value": 144, "alternative": "two-sided", "distribution": "t"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var eval app.DatasetEvaluation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eval))
	assert.Equal(t, "Minutes", eval.Column)
	assert.Equal(t, 7, eval.Result.Result.DegreesOfFreedom)

	rec = do(t, s, http.MethodPost, "/dataset/evaluate", `{"config": {"null_value": 144, "distribution": "t", "alpha": 2}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/dataset/reload", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDatasetInterval(t *testing.T) {
	s := newTestServer(t, true)

	rec := do(t, s, http.MethodGet, "/dataset/interval?confidence=0.9", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var interval app.DatasetInterval
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &interval))
	assert.Equal(t, "Minutes", interval.Column)
	assert.Equal(t, stats.StudentT, interval.Interval.Distribution)
	assert.Equal(t, 7, interval.Interval.DegreesOfFreedom)
	assert.InDelta(t, 154.875, interval.Interval.Estimate, 1e-9)
	assert.InDelta(t, 0.9, interval.Interval.Confidence, 1e-12)
	assert.True(t, interval.Interval.Contains(154.875))
	require.NotNil(t, interval.Curve)

	rec = do(t, s, http.MethodGet, "/dataset/interval", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &interval))
	assert.InDelta(t, 0.95, interval.Interval.Confidence, 1e-12)

	rec = do(t, s, http.MethodGet, "/dataset/interval?confidence=1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_PARAMETER")

	rec = do(t, s, http.MethodGet, "/dataset/interval?confidence=high", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestDatasetNotConfigured(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/dataset/summary", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAVAILABLE")
}

func TestAPIIsMounted(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodPost, "/v1/probabilities/binomial", `{"trials": 100, "p": 0.09, "k": 3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "probability")
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}
