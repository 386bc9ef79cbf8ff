package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"listen-heatmap/calendar"
	"listen-heatmap/dao/redis"
	"listen-heatmap/db"
	"listen-heatmap/metrics"
	"listen-heatmap/models"
	"listen-heatmap/util"
)

// Labels of the highlights derived from the data itself.
const (
	FirstDayLabel = "First day of data"
	LastDayLabel  = "Last day of data"
)

// YearView is everything needed to draw one year of one metric.
type YearView struct {
	Metric      string
	Title       string
	Layout      calendar.YearLayout
	Annotations calendar.Annotations
	Scale       calendar.ColorScale
}

// HeatmapService runs the densify, split, map and render pipeline on cached series.
type HeatmapService struct {
	dao            *redis.RedisSeriesDAO
	refresher      *SeriesRefresherService
	registry       *metrics.Registry
	highlights     []calendar.Highlight
	autoHighlights bool
	style          util.PlotStyle
	logger         *zap.Logger
}

func NewHeatmapService(
	dao *redis.RedisSeriesDAO,
	refresher *SeriesRefresherService,
	registry *metrics.Registry,
	highlights []calendar.Highlight,
	autoHighlights bool,
	style util.PlotStyle,
	logger *zap.Logger,
) *HeatmapService {
	return &HeatmapService{
		dao:            dao,
		refresher:      refresher,
		registry:       registry,
		highlights:     highlights,
		autoHighlights: autoHighlights,
		style:          style,
		logger:         logger.Named("HeatmapService"),
	}
}

// DailySeries returns the sparse daily series of a metric, refreshing the cache on a miss.
func (hs *HeatmapService) DailySeries(ctx context.Context, metric string) (calendar.DateSeries, error) {
	if _, err := hs.registry.Metric(metric); err != nil {
		return nil, err
	}
	series, err := hs.dao.GetDailySeries(metric)
	if err == nil {
		return series, nil
	}
	if !errors.Is(err, db.ErrKeyNotFound) {
		return nil, err
	}

	hs.logger.Info("Series cache miss, refreshing", zap.String("metric", metric))
	if err := hs.refresher.RefreshSeries(ctx); err != nil {
		return nil, err
	}
	return hs.dao.GetDailySeries(metric)
}

// BuildYear lays out one year of a metric with its highlights.
func (hs *HeatmapService) BuildYear(ctx context.Context, year int, metric string) (*YearView, error) {
	strategy, err := hs.registry.Metric(metric)
	if err != nil {
		return nil, err
	}
	series, err := hs.DailySeries(ctx, metric)
	if err != nil {
		return nil, err
	}

	dense, err := calendar.Densify(series)
	if err != nil {
		return nil, fmt.Errorf("densifying %s series: %w", metric, err)
	}
	layout, err := calendar.BuildYearLayout(dense, year)
	if err != nil {
		return nil, err
	}

	highlights, err := hs.highlightsFor(ctx)
	if err != nil {
		return nil, err
	}
	annotations := calendar.Annotate(layout, highlights)
	for _, h := range annotations.Skipped {
		hs.logger.Debug("Highlight out of range, skipped",
			zap.String("date", h.Date.Format(calendar.DateLayout)),
			zap.String("label", h.Label),
			zap.Int("year", year))
	}

	scale, err := hs.style.ColorScale(layout.GlobalMax)
	if err != nil {
		return nil, err
	}

	hs.logger.Debug("Built year layout",
		zap.Int("year", year),
		zap.String("metric", metric),
		zap.Int("panels", len(layout.Grids)),
		zap.Float64("global_max", layout.GlobalMax),
		zap.Int("marks", len(annotations.Marks)))

	return &YearView{
		Metric:      metric,
		Title:       strategy.Title(year),
		Layout:      layout,
		Annotations: annotations,
		Scale:       scale,
	}, nil
}

// highlightsFor appends the first and last day of the merged history to the
// configured highlights when enabled. The span does not depend on the metric.
func (hs *HeatmapService) highlightsFor(ctx context.Context) ([]calendar.Highlight, error) {
	highlights := append([]calendar.Highlight(nil), hs.highlights...)
	if !hs.autoHighlights {
		return highlights, nil
	}
	summary, err := hs.HistorySummary(ctx)
	if err != nil {
		return nil, err
	}
	if summary.Records == 0 {
		return highlights, nil
	}
	return append(highlights,
		calendar.Highlight{Date: summary.FirstDay, Label: FirstDayLabel},
		calendar.Highlight{Date: summary.LastDay, Label: LastDayLabel},
	), nil
}

// HistorySummary returns the record count and data span, refreshing the cache on a miss.
func (hs *HeatmapService) HistorySummary(ctx context.Context) (models.HistorySummary, error) {
	summary, err := hs.dao.GetHistorySummary()
	if err == nil {
		return summary, nil
	}
	if !errors.Is(err, db.ErrKeyNotFound) {
		return models.HistorySummary{}, err
	}

	hs.logger.Info("History summary cache miss, refreshing")
	if err := hs.refresher.RefreshSeries(ctx); err != nil {
		return models.HistorySummary{}, err
	}
	return hs.dao.GetHistorySummary()
}

// RenderYear writes the heatmap page of a year. Nothing is written when the layout fails.
func (hs *HeatmapService) RenderYear(ctx context.Context, w io.Writer, year int, metric string) error {
	view, err := hs.BuildYear(ctx, year, metric)
	if err != nil {
		return err
	}
	return util.PlotYearHeatmap(w, view.Title, view.Layout, view.Annotations, view.Scale, hs.style)
}

// Layout returns the renderer-neutral form of a year.
func (hs *HeatmapService) Layout(ctx context.Context, year int, metric string) (*models.LayoutResponse, error) {
	view, err := hs.BuildYear(ctx, year, metric)
	if err != nil {
		return nil, err
	}
	rows, cols := calendar.PanelGrid(len(view.Layout.Grids))
	return &models.LayoutResponse{
		Year:        year,
		Metric:      metric,
		Title:       view.Title,
		PanelRows:   rows,
		PanelCols:   cols,
		Layout:      view.Layout,
		Annotations: view.Annotations,
	}, nil
}

// Shares returns the share breakdown of a record field.
func (hs *HeatmapService) Shares(ctx context.Context, field string) (*models.ShareResponse, error) {
	strategy, err := hs.registry.Share(field)
	if err != nil {
		return nil, err
	}
	shares, err := hs.dao.GetShares(field)
	if errors.Is(err, db.ErrKeyNotFound) {
		hs.logger.Info("Shares cache miss, refreshing", zap.String("field", field))
		if err := hs.refresher.RefreshSeries(ctx); err != nil {
			return nil, err
		}
		shares, err = hs.dao.GetShares(field)
	}
	if err != nil {
		return nil, err
	}

	total := 0
	for _, s := range shares {
		total += s.Count
	}
	return &models.ShareResponse{Field: field, Title: strategy.Title(), Total: total, Shares: shares}, nil
}

// RenderShares writes the pie chart of a record field.
func (hs *HeatmapService) RenderShares(ctx context.Context, w io.Writer, field string) error {
	resp, err := hs.Shares(ctx, field)
	if err != nil {
		return err
	}
	return util.PlotShares(w, resp.Title, resp.Shares, hs.style)
}

// MetricNames lists the registered metrics and share fields along with what
// the cache currently holds. It never triggers a refresh.
func (hs *HeatmapService) MetricNames() (models.MetricsResponse, error) {
	cached, err := hs.dao.ListCachedMetrics()
	if err != nil {
		return models.MetricsResponse{}, err
	}
	resp := models.MetricsResponse{
		Metrics: hs.registry.MetricNames(),
		Shares:  hs.registry.ShareNames(),
		Cached:  cached,
	}

	summary, err := hs.dao.GetHistorySummary()
	switch {
	case err == nil:
		resp.History = &summary
	case !errors.Is(err, db.ErrKeyNotFound):
		return models.MetricsResponse{}, err
	}
	return resp, nil
}

// Ping reports whether the cache backend is reachable.
func (hs *HeatmapService) Ping() error {
	return hs.dao.Ping()
}
