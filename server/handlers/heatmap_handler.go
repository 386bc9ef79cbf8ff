package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"listen-heatmap/calendar"
	"listen-heatmap/metrics"
	"listen-heatmap/models"
)

const (
	YEAR_PATH_VAR     = "year"
	FIELD_PATH_VAR    = "field"
	METRIC_QUERY_ARG  = "metric"
	FORMAT_QUERY_ARG  = "format"
	FORMAT_JSON_VALUE = "json"
)

// HeatmapProvider is what the handler needs from the heatmap service.
type HeatmapProvider interface {
	RenderYear(ctx context.Context, w io.Writer, year int, metric string) error
	Layout(ctx context.Context, year int, metric string) (*models.LayoutResponse, error)
	Shares(ctx context.Context, field string) (*models.ShareResponse, error)
	RenderShares(ctx context.Context, w io.Writer, field string) error
	MetricNames() (models.MetricsResponse, error)
	Ping() error
}

type HeatmapHandler struct {
	provider      HeatmapProvider
	defaultMetric string
	logger        *zap.Logger
}

func NewHeatmapHandler(provider HeatmapProvider, defaultMetric string, logger *zap.Logger) *HeatmapHandler {
	return &HeatmapHandler{
		provider:      provider,
		defaultMetric: defaultMetric,
		logger:        logger.Named("HeatmapHandler"),
	}
}

// Ping handles GET /ping. It answers 503 while the cache is unreachable.
func (h *HeatmapHandler) Ping(w http.ResponseWriter, r *http.Request) {
	if err := h.provider.Ping(); err != nil {
		h.logger.Warn("Readiness check failed", zap.Error(err))
		http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, map[string]string{"status": "pong"})
}

// ListMetrics handles GET /v1/metrics
func (h *HeatmapHandler) ListMetrics(w http.ResponseWriter, r *http.Request) {
	resp, err := h.provider.MetricNames()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, resp)
}

// GetHeatmap handles GET /v1/heatmap/{year}?metric=
func (h *HeatmapHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	year, metric, ok := h.parseYearArgs(w, r)
	if !ok {
		return
	}

	// Render fully before writing so a failure never leaves a partial page.
	var buf bytes.Buffer
	if err := h.provider.RenderYear(r.Context(), &buf, year, metric); err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("Error writing heatmap", zap.Error(err))
	}
}

// GetLayout handles GET /v1/layout/{year}?metric=
func (h *HeatmapHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	year, metric, ok := h.parseYearArgs(w, r)
	if !ok {
		return
	}
	resp, err := h.provider.Layout(r.Context(), year, metric)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, resp)
}

// GetShares handles GET /v1/shares/{field}, as a pie chart or with ?format=json
func (h *HeatmapHandler) GetShares(w http.ResponseWriter, r *http.Request) {
	field := mux.Vars(r)[FIELD_PATH_VAR]

	if r.URL.Query().Get(FORMAT_QUERY_ARG) == FORMAT_JSON_VALUE {
		resp, err := h.provider.Shares(r.Context(), field)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, resp)
		return
	}

	var buf bytes.Buffer
	if err := h.provider.RenderShares(r.Context(), &buf, field); err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("Error writing share chart", zap.Error(err))
	}
}

func (h *HeatmapHandler) parseYearArgs(w http.ResponseWriter, r *http.Request) (year int, metric string, ok bool) {
	year, err := strconv.Atoi(mux.Vars(r)[YEAR_PATH_VAR])
	if err != nil || year < 1 || year > 9999 {
		http.Error(w, "Invalid argument "+YEAR_PATH_VAR, http.StatusBadRequest)
		return 0, "", false
	}
	metric = r.URL.Query().Get(METRIC_QUERY_ARG)
	if metric == "" {
		metric = h.defaultMetric
	}
	return year, metric, true
}

// writeError maps pipeline errors onto status codes.
func (h *HeatmapHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, metrics.ErrUnknownMetric):
		status = http.StatusBadRequest
	case errors.Is(err, metrics.ErrUnknownShare):
		status = http.StatusNotFound
	case errors.Is(err, calendar.ErrNoObservedData), errors.Is(err, calendar.ErrEmptyInputRange):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err))
		http.Error(w, "Internal server error", status)
		return
	}
	h.logger.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	http.Error(w, err.Error(), status)
}

func (h *HeatmapHandler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Error encoding response", zap.Error(err))
	}
}
