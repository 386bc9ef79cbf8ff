package redis

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"listen-heatmap/calendar"
	"listen-heatmap/db"
	"listen-heatmap/models"
)

// DAILY_SERIES_KEY_FORMAT caches the aggregated daily series of one metric.
const DAILY_SERIES_KEY_FORMAT = "daily_series_v1:%s"

// SHARES_KEY_FORMAT caches the share breakdown of one record field.
const SHARES_KEY_FORMAT = "shares_v1:%s"

// HISTORY_SUMMARY_KEY holds the record count and data span behind the cache.
const HISTORY_SUMMARY_KEY = "history_summary_v1"

// RedisSeriesDAO caches aggregated listening data in Redis.
type RedisSeriesDAO struct {
	client db.RedisClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSeriesDAO creates a DAO whose entries expire after ttl (0 keeps them forever).
func NewRedisSeriesDAO(client db.RedisClient, ttl time.Duration, logger *zap.Logger) *RedisSeriesDAO {
	return &RedisSeriesDAO{client: client, ttl: ttl, logger: logger.Named("RedisSeriesDAO")}
}

// SetDailySeries caches the daily series of a metric.
func (dao *RedisSeriesDAO) SetDailySeries(metric string, series calendar.DateSeries) error {
	key := fmt.Sprintf(DAILY_SERIES_KEY_FORMAT, metric)
	if err := dao.setJSON(key, series); err != nil {
		return fmt.Errorf("failed to cache daily series for metric %s: %w", metric, err)
	}
	dao.logger.Debug("Cached daily series", zap.String("metric", metric), zap.Int("days", len(series)))
	return nil
}

// GetDailySeries returns the cached series of a metric. A miss wraps db.ErrKeyNotFound.
func (dao *RedisSeriesDAO) GetDailySeries(metric string) (calendar.DateSeries, error) {
	var series calendar.DateSeries
	key := fmt.Sprintf(DAILY_SERIES_KEY_FORMAT, metric)
	if err := dao.getJSON(key, &series); err != nil {
		return nil, fmt.Errorf("failed to get daily series for metric %s: %w", metric, err)
	}
	return series, nil
}

// ListCachedMetrics returns the metrics that currently have a cached series.
func (dao *RedisSeriesDAO) ListCachedMetrics() ([]string, error) {
	keys, err := dao.client.Keys(fmt.Sprintf(DAILY_SERIES_KEY_FORMAT, "*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list daily series keys: %w", err)
	}
	prefix := fmt.Sprintf(DAILY_SERIES_KEY_FORMAT, "")
	metrics := make([]string, 0, len(keys))
	for _, k := range keys {
		metrics = append(metrics, strings.TrimPrefix(k, prefix))
	}
	return metrics, nil
}

// DeleteDailySeries drops the cached series of a metric.
func (dao *RedisSeriesDAO) DeleteDailySeries(metric string) error {
	key := fmt.Sprintf(DAILY_SERIES_KEY_FORMAT, metric)
	if err := dao.client.Del(key); err != nil {
		return fmt.Errorf("failed to delete daily series key %s: %w", key, err)
	}
	dao.logger.Debug("Deleted daily series", zap.String("metric", metric))
	return nil
}

// SetShares caches the share breakdown of a field.
func (dao *RedisSeriesDAO) SetShares(field string, shares []models.Share) error {
	if err := dao.setJSON(fmt.Sprintf(SHARES_KEY_FORMAT, field), shares); err != nil {
		return fmt.Errorf("failed to cache shares for field %s: %w", field, err)
	}
	return nil
}

// GetShares returns the cached share breakdown of a field.
func (dao *RedisSeriesDAO) GetShares(field string) ([]models.Share, error) {
	var shares []models.Share
	if err := dao.getJSON(fmt.Sprintf(SHARES_KEY_FORMAT, field), &shares); err != nil {
		return nil, fmt.Errorf("failed to get shares for field %s: %w", field, err)
	}
	return shares, nil
}

// SetHistorySummary stores the record count and first and last day of the merged history.
func (dao *RedisSeriesDAO) SetHistorySummary(summary models.HistorySummary) error {
	if err := dao.setJSON(HISTORY_SUMMARY_KEY, summary); err != nil {
		return fmt.Errorf("failed to cache history summary: %w", err)
	}
	return nil
}

// GetHistorySummary returns the stored history summary. A miss wraps db.ErrKeyNotFound.
func (dao *RedisSeriesDAO) GetHistorySummary() (models.HistorySummary, error) {
	var summary models.HistorySummary
	if err := dao.getJSON(HISTORY_SUMMARY_KEY, &summary); err != nil {
		return models.HistorySummary{}, fmt.Errorf("failed to get history summary: %w", err)
	}
	return summary, nil
}

// Ping checks that the cache backend is reachable.
func (dao *RedisSeriesDAO) Ping() error {
	if err := dao.client.Ping(); err != nil {
		return fmt.Errorf("cache unreachable: %w", err)
	}
	return nil
}

func (dao *RedisSeriesDAO) setJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return dao.client.SetWithTTL(key, string(data), dao.ttl)
}

func (dao *RedisSeriesDAO) getJSON(key string, v interface{}) error {
	str, err := dao.client.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(str), v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}
