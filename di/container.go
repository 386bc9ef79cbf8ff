package di

import (
	"context"
	"fmt"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"listen-heatmap/api"
	"listen-heatmap/config"
	"listen-heatmap/dao/redis"
	"listen-heatmap/db"
	"listen-heatmap/metrics"
	"listen-heatmap/server"
	"listen-heatmap/server/handlers"
	services "listen-heatmap/service"
)

// Container holds all application dependencies.
type Container struct {
	Config                  *config.Config
	Logger                  *zap.Logger
	Registry                *metrics.Registry
	RedisClient             db.RedisClient
	RedisSeriesDao          *redis.RedisSeriesDAO
	HTTPClient              *api.HTTPClient
	ListeningHistoryService *services.ListeningHistoryService
	SeriesRefresherService  *services.SeriesRefresherService
	HeatmapService          *services.HeatmapService
	HeatmapHandler          *handlers.HeatmapHandler
	MuxRouter               *mux.Router
	Router                  *server.Router
	ListeningHttpServer     *server.ListeningHttpServer
}

// NewContainer validates cfg and wires up all dependencies. Redis is used when
// enabled in config, otherwise aggregates are cached in memory for the process.
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	registry := metrics.DefaultRegistry()
	if err := cfg.Validate(registry); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	highlights, err := cfg.AllHighlights()
	if err != nil {
		return nil, fmt.Errorf("loading highlights: %w", err)
	}

	var redisClient db.RedisClient
	if cfg.Redis.Enabled {
		logger.Info("Using redis cache", zap.String("address", cfg.Redis.Address))
		redisInternalClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		client, err := db.NewCacheRedisClient(ctx, redisInternalClient)
		if err != nil {
			return nil, err
		}
		redisClient = client
	} else {
		logger.Info("Using in-memory cache")
		redisClient = db.NewMockRedisClient()
	}

	redisSeriesDao := redis.NewRedisSeriesDAO(redisClient, cfg.RedisTTL(), logger)

	// Remote inputs are absolute URLs, so no base URL.
	httpClient := api.NewHTTPClient("")

	historyService := services.NewListeningHistoryService(httpClient, logger)
	refresherService := services.NewSeriesRefresherService(historyService, redisSeriesDao, registry, cfg.Inputs, location, logger)
	heatmapService := services.NewHeatmapService(redisSeriesDao, refresherService, registry, highlights, cfg.HighlightsAuto, cfg.PlotStyle(), logger)

	heatmapHandler := handlers.NewHeatmapHandler(heatmapService, cfg.Metric, logger)
	muxRouter := mux.NewRouter()
	router := server.NewRouter(heatmapHandler, muxRouter)
	httpServer := server.NewListeningHttpServer(router, muxRouter, cfg.Server.Address, logger)

	return &Container{
		Config:                  cfg,
		Logger:                  logger,
		Registry:                registry,
		RedisClient:             redisClient,
		RedisSeriesDao:          redisSeriesDao,
		HTTPClient:              httpClient,
		ListeningHistoryService: historyService,
		SeriesRefresherService:  refresherService,
		HeatmapService:          heatmapService,
		HeatmapHandler:          heatmapHandler,
		MuxRouter:               muxRouter,
		Router:                  router,
		ListeningHttpServer:     httpServer,
	}, nil
}

// Close releases the redis connection when one was opened.
func (c *Container) Close() error {
	if closer, ok := c.RedisClient.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
