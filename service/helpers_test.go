package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"listen-heatmap/calendar"
	"listen-heatmap/dao/redis"
	"listen-heatmap/db"
	"listen-heatmap/metrics"
	"listen-heatmap/models"
	"listen-heatmap/util"
)

// fakeFetcher serves canned datasets by URL.
type fakeFetcher struct {
	datasets map[string][]models.PlayRecord
	err      error
}

func (f *fakeFetcher) GetJSON(ctx context.Context, endpoint string, response interface{}) error {
	if f.err != nil {
		return f.err
	}
	data, err := json.Marshal(f.datasets[endpoint])
	if err != nil {
		return err
	}
	return json.Unmarshal(data, response)
}

func record(ts string, ms int64, reasonEnd, platform string) models.PlayRecord {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return models.PlayRecord{Timestamp: t, MsPlayed: ms, ReasonEnd: reasonEnd, Platform: platform}
}

func writeHistory(t *testing.T, dir, name string, records []models.PlayRecord) string {
	t.Helper()
	data, err := json.Marshal(records)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

type fixture struct {
	client    *db.MockRedisClient
	dao       *redis.RedisSeriesDAO
	refresher *SeriesRefresherService
	registry  *metrics.Registry
}

func newFixture(t *testing.T, sources []string, fetcher DatasetFetcher) fixture {
	t.Helper()
	logger := zap.NewNop()
	client := db.NewMockRedisClient()
	dao := redis.NewRedisSeriesDAO(client, 0, logger)
	registry := metrics.DefaultRegistry()
	history := NewListeningHistoryService(fetcher, logger)
	refresher := NewSeriesRefresherService(history, dao, registry, sources, time.UTC, logger)
	return fixture{client: client, dao: dao, refresher: refresher, registry: registry}
}

func (f fixture) heatmapService(highlights []calendar.Highlight, auto bool) *HeatmapService {
	return NewHeatmapService(f.dao, f.refresher, f.registry, highlights, auto, util.DefaultPlotStyle(), zap.NewNop())
}
