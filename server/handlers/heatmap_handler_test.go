package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"listen-heatmap/calendar"
	"listen-heatmap/metrics"
	"listen-heatmap/models"
)

// fakeProvider records the arguments it was called with.
type fakeProvider struct {
	err        error
	pingErr    error
	lastYear   int
	lastMetric string
}

func (f *fakeProvider) RenderYear(ctx context.Context, w io.Writer, year int, metric string) error {
	f.lastYear, f.lastMetric = year, metric
	if f.err != nil {
		return f.err
	}
	_, err := fmt.Fprintf(w, "<html>%d %s</html>", year, metric)
	return err
}

func (f *fakeProvider) Layout(ctx context.Context, year int, metric string) (*models.LayoutResponse, error) {
	f.lastYear, f.lastMetric = year, metric
	if f.err != nil {
		return nil, f.err
	}
	return &models.LayoutResponse{Year: year, Metric: metric, PanelRows: 4, PanelCols: 3}, nil
}

func (f *fakeProvider) Shares(ctx context.Context, field string) (*models.ShareResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ShareResponse{Field: field, Total: 1, Shares: []models.Share{{Label: "ios", Count: 1, Percent: 100}}}, nil
}

func (f *fakeProvider) RenderShares(ctx context.Context, w io.Writer, field string) error {
	if f.err != nil {
		return f.err
	}
	_, err := fmt.Fprintf(w, "<html>%s</html>", field)
	return err
}

func (f *fakeProvider) MetricNames() (models.MetricsResponse, error) {
	if f.err != nil {
		return models.MetricsResponse{}, f.err
	}
	return models.MetricsResponse{
		Metrics: []string{"hours", "songs"},
		Shares:  []string{"platform"},
		Cached:  []string{"hours"},
		History: &models.HistorySummary{
			Records:  2,
			FirstDay: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			LastDay:  time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		},
	}, nil
}

func (f *fakeProvider) Ping() error {
	return f.pingErr
}

func newTestRouter(provider HeatmapProvider) *mux.Router {
	h := NewHeatmapHandler(provider, "hours", zap.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/ping", h.Ping)
	r.HandleFunc("/v1/metrics", h.ListMetrics)
	r.HandleFunc("/v1/heatmap/{year}", h.GetHeatmap)
	r.HandleFunc("/v1/layout/{year}", h.GetLayout)
	r.HandleFunc("/v1/shares/{field}", h.GetShares)
	return r
}

func serve(r *mux.Router, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestHeatmapHandler_GetHeatmap(t *testing.T) {
	provider := &fakeProvider{}
	r := newTestRouter(provider)

	rr := serve(r, "/v1/heatmap/2024")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "<html>2024 hours</html>", rr.Body.String())

	serve(r, "/v1/heatmap/2023?metric=songs")
	assert.Equal(t, 2023, provider.lastYear)
	assert.Equal(t, "songs", provider.lastMetric)
}

func TestHeatmapHandler_ErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"bad year", "/v1/heatmap/abc", nil, http.StatusBadRequest},
		{"year zero", "/v1/layout/0", nil, http.StatusBadRequest},
		{"unknown metric", "/v1/heatmap/2024?metric=x", fmt.Errorf("wrapped: %w", metrics.ErrUnknownMetric), http.StatusBadRequest},
		{"no observed data", "/v1/heatmap/1999", fmt.Errorf("year 1999: %w", calendar.ErrNoObservedData), http.StatusNotFound},
		{"empty history", "/v1/layout/2024", calendar.ErrEmptyInputRange, http.StatusNotFound},
		{"unknown share", "/v1/shares/genre", metrics.ErrUnknownShare, http.StatusNotFound},
		{"internal", "/v1/layout/2024", fmt.Errorf("redis down"), http.StatusInternalServerError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rr := serve(newTestRouter(&fakeProvider{err: test.err}), test.path)

			assert.Equal(t, test.status, rr.Code)
			assert.NotContains(t, rr.Body.String(), "<html>")
		})
	}
}

func TestHeatmapHandler_GetLayout(t *testing.T) {
	rr := serve(newTestRouter(&fakeProvider{}), "/v1/layout/2024?metric=songs")

	require.Equal(t, http.StatusOK, rr.Code)
	var resp models.LayoutResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2024, resp.Year)
	assert.Equal(t, "songs", resp.Metric)
	assert.Equal(t, 4, resp.PanelRows)
}

func TestHeatmapHandler_GetShares(t *testing.T) {
	r := newTestRouter(&fakeProvider{})

	rr := serve(r, "/v1/shares/platform")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "<html>platform</html>", rr.Body.String())

	rr = serve(r, "/v1/shares/platform?format=json")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp models.ShareResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "platform", resp.Field)
	assert.Equal(t, 1, resp.Total)
}

func TestHeatmapHandler_PingAndMetrics(t *testing.T) {
	r := newTestRouter(&fakeProvider{})

	rr := serve(r, "/ping")
	assert.JSONEq(t, `{"status":"pong"}`, rr.Body.String())

	rr = serve(r, "/v1/metrics")
	assert.JSONEq(t, `{
		"metrics": ["hours", "songs"],
		"shares": ["platform"],
		"cached": ["hours"],
		"history": {"records": 2, "first_day": "2024-03-01T00:00:00Z", "last_day": "2024-03-09T00:00:00Z"}
	}`, rr.Body.String())
}

func TestHeatmapHandler_PingCacheDown(t *testing.T) {
	r := newTestRouter(&fakeProvider{pingErr: errors.New("connection refused")})

	rr := serve(r, "/ping")

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHeatmapHandler_ListMetricsError(t *testing.T) {
	r := newTestRouter(&fakeProvider{err: errors.New("cache down")})

	rr := serve(r, "/v1/metrics")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
