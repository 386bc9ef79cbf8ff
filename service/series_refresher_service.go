package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"listen-heatmap/calendar"
	"listen-heatmap/dao/redis"
	"listen-heatmap/metrics"
	"listen-heatmap/models"
)

// SeriesRefresherService rebuilds the cached aggregates from the configured datasets.
type SeriesRefresherService struct {
	history  *ListeningHistoryService
	dao      *redis.RedisSeriesDAO
	registry *metrics.Registry
	sources  []string
	location *time.Location
	logger   *zap.Logger
}

func NewSeriesRefresherService(
	history *ListeningHistoryService,
	dao *redis.RedisSeriesDAO,
	registry *metrics.Registry,
	sources []string,
	location *time.Location,
	logger *zap.Logger,
) *SeriesRefresherService {
	if location == nil {
		location = time.UTC
	}
	return &SeriesRefresherService{
		history:  history,
		dao:      dao,
		registry: registry,
		sources:  sources,
		location: location,
		logger:   logger.Named("SeriesRefresherService"),
	}
}

// RefreshSeries loads the datasets once and caches every metric series and share breakdown.
func (sr *SeriesRefresherService) RefreshSeries(ctx context.Context) error {
	records, err := sr.history.Load(ctx, sr.sources)
	if err != nil {
		return fmt.Errorf("failed to load listening history: %w", err)
	}

	for _, name := range sr.registry.MetricNames() {
		strategy, err := sr.registry.Metric(name)
		if err != nil {
			return err
		}
		series := strategy.Aggregate(records, sr.location)
		if err := sr.dao.SetDailySeries(name, series); err != nil {
			return err
		}
		sr.logger.Debug("Refreshed metric", zap.String("metric", name), zap.Int("days", len(series)))
	}

	for _, name := range sr.registry.ShareNames() {
		strategy, err := sr.registry.Share(name)
		if err != nil {
			return err
		}
		if err := sr.dao.SetShares(name, metrics.Shares(records, strategy)); err != nil {
			return err
		}
	}

	if err := sr.pruneStaleMetrics(); err != nil {
		return err
	}

	if err := sr.dao.SetHistorySummary(sr.summarize(records)); err != nil {
		return err
	}
	sr.logger.Info("Cache refreshed", zap.Int("records", len(records)))
	return nil
}

// pruneStaleMetrics drops cached series of metrics that are no longer registered.
func (sr *SeriesRefresherService) pruneStaleMetrics() error {
	cached, err := sr.dao.ListCachedMetrics()
	if err != nil {
		return err
	}
	for _, name := range cached {
		if _, err := sr.registry.Metric(name); err == nil {
			continue
		}
		if err := sr.dao.DeleteDailySeries(name); err != nil {
			return err
		}
		sr.logger.Info("Dropped stale metric series", zap.String("metric", name))
	}
	return nil
}

// summarize takes the data span from the merged records, which are in timestamp order.
func (sr *SeriesRefresherService) summarize(records []models.PlayRecord) models.HistorySummary {
	summary := models.HistorySummary{Records: len(records)}
	if len(records) == 0 {
		return summary
	}
	summary.FirstDay = calendar.Day(records[0].Timestamp.In(sr.location))
	summary.LastDay = calendar.Day(records[len(records)-1].Timestamp.In(sr.location))
	return summary
}

// StartPeriodicJob refreshes the cache every interval until ctx is done.
func (sr *SeriesRefresherService) StartPeriodicJob(ctx context.Context, interval time.Duration) {
	go sr.startPeriodicJob(ctx, interval)
}

func (sr *SeriesRefresherService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sr.logger.Debug("Periodic refresher stopped")
			return
		case <-ticker.C:
			sr.logger.Info("Running periodic series refresher job")
			if err := sr.RefreshSeries(ctx); err != nil {
				sr.logger.Error("RefreshSeries returned error", zap.Error(err))
			}
		}
	}
}
