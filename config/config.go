package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"listen-heatmap/calendar"
	"listen-heatmap/metrics"
	"listen-heatmap/models"
	"listen-heatmap/util"
)

// Redis Config
const DEFAULT_REDIS_DB_ADDRESS = "redis:6379"
const DEFAULT_REDIS_DB_PASSWORD = ""
const DEFAULT_REDIS_DB = 0
const DEFAULT_REDIS_TTL_MINUTES = 24 * 60

// Series refresher config, used by the server only
const DEFAULT_REFRESH_SCHEDULE_MINUTES = 60

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const DEFAULT_AUDIO_INPUTS_PATTERN = "Streaming_History_Audio_*.json"
const DEFAULT_VIDEO_INPUTS_PATTERN = "Streaming_History_Video_*.json"

const ENV_PREFIX = "HEATMAP"
const CONFIG_NAME = "heatmap"

type Config struct {
	Year           int                     `mapstructure:"year" yaml:"year"`
	Metric         string                  `mapstructure:"metric" yaml:"metric"`
	Timezone       string                  `mapstructure:"timezone" yaml:"timezone"`
	Inputs         []string                `mapstructure:"inputs" yaml:"inputs"`
	Output         string                  `mapstructure:"output" yaml:"output"`
	Highlights     []models.HighlightEntry `mapstructure:"highlights" yaml:"highlights"`
	HighlightsFile string                  `mapstructure:"highlights_file" yaml:"highlights_file"`
	HighlightsAuto bool                    `mapstructure:"highlights_auto" yaml:"highlights_auto"`
	Style          StyleConfig             `mapstructure:"style" yaml:"style"`
	Redis          RedisConfig             `mapstructure:"redis" yaml:"redis"`
	Server         ServerConfig            `mapstructure:"server" yaml:"server"`
	Logging        LoggingConfig           `mapstructure:"logging" yaml:"logging"`
}

type StyleConfig struct {
	FontFamily     string `mapstructure:"font_family" yaml:"font_family"`
	FontSize       int    `mapstructure:"font_size" yaml:"font_size"`
	ColorFrom      string `mapstructure:"color_from" yaml:"color_from"`
	ColorTo        string `mapstructure:"color_to" yaml:"color_to"`
	Bands          int    `mapstructure:"bands" yaml:"bands"`
	MissingColor   string `mapstructure:"missing_color" yaml:"missing_color"`
	HighlightColor string `mapstructure:"highlight_color" yaml:"highlight_color"`
	PanelWidth     int    `mapstructure:"panel_width" yaml:"panel_width"`
	PanelHeight    int    `mapstructure:"panel_height" yaml:"panel_height"`
}

type RedisConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Address    string `mapstructure:"address" yaml:"address"`
	Password   string `mapstructure:"password" yaml:"password"`
	DB         int    `mapstructure:"db" yaml:"db"`
	TTLMinutes int    `mapstructure:"ttl_minutes" yaml:"ttl_minutes"`
}

type ServerConfig struct {
	Address                string `mapstructure:"address" yaml:"address"`
	RefreshScheduleMinutes int    `mapstructure:"refresh_schedule_minutes" yaml:"refresh_schedule_minutes"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // "debug", "info", "warn" or "error"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/heatmap.yaml
//  2. <BaseDir>/config/heatmap.yaml
//  3. ~/.listen-heatmap/heatmap.yaml
//
// Environment variables override file values, e.g. HEATMAP_REDIS_ADDRESS.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName(CONFIG_NAME)
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(BaseDir(), "config"))
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".listen-heatmap"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("year", time.Now().Year())
	v.SetDefault("metric", "hours")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("inputs", []string{
		GetResourcePath(DEFAULT_AUDIO_INPUTS_PATTERN),
		GetResourcePath(DEFAULT_VIDEO_INPUTS_PATTERN),
	})
	v.SetDefault("output", "heatmap.html")
	v.SetDefault("highlights", []models.HighlightEntry{})
	v.SetDefault("highlights_file", "")
	v.SetDefault("highlights_auto", false)

	style := util.DefaultPlotStyle()
	v.SetDefault("style.font_family", style.FontFamily)
	v.SetDefault("style.font_size", style.FontSize)
	v.SetDefault("style.color_from", style.ColorFrom)
	v.SetDefault("style.color_to", style.ColorTo)
	v.SetDefault("style.bands", style.Bands)
	v.SetDefault("style.missing_color", style.MissingColor)
	v.SetDefault("style.highlight_color", style.HighlightColor)
	v.SetDefault("style.panel_width", style.PanelWidth)
	v.SetDefault("style.panel_height", style.PanelHeight)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", DEFAULT_REDIS_DB_ADDRESS)
	v.SetDefault("redis.password", DEFAULT_REDIS_DB_PASSWORD)
	v.SetDefault("redis.db", DEFAULT_REDIS_DB)
	v.SetDefault("redis.ttl_minutes", DEFAULT_REDIS_TTL_MINUTES)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.refresh_schedule_minutes", DEFAULT_REFRESH_SCHEDULE_MINUTES)

	v.SetDefault("logging.level", "info")
}

// Validate rejects settings that would fail later in the pipeline.
func (c *Config) Validate(registry *metrics.Registry) error {
	if c.Year < 1 || c.Year > 9999 {
		return fmt.Errorf("invalid year %d", c.Year)
	}
	if _, err := registry.Metric(c.Metric); err != nil {
		return fmt.Errorf("invalid metric: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if len(c.Inputs) == 0 {
		return fmt.Errorf("no inputs configured")
	}
	if _, err := models.ToHighlights(c.Highlights); err != nil {
		return err
	}
	if _, err := c.PlotStyle().ColorScale(1); err != nil {
		return err
	}
	if c.Style.PanelWidth <= 0 || c.Style.PanelHeight <= 0 {
		return fmt.Errorf("invalid panel size %dx%d", c.Style.PanelWidth, c.Style.PanelHeight)
	}
	if c.Redis.TTLMinutes < 0 {
		return fmt.Errorf("invalid redis ttl_minutes %d", c.Redis.TTLMinutes)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}
	return nil
}

// Location resolves the timezone days are counted in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// AllHighlights returns the inline highlights followed by those of highlights_file.
func (c *Config) AllHighlights() ([]calendar.Highlight, error) {
	entries := append([]models.HighlightEntry(nil), c.Highlights...)
	if c.HighlightsFile != "" {
		fromFile, err := util.ReadHighlightsFromYAML(c.HighlightsFile)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fromFile...)
	}
	return models.ToHighlights(entries)
}

func (c *Config) PlotStyle() util.PlotStyle {
	return util.PlotStyle{
		FontFamily:     c.Style.FontFamily,
		FontSize:       c.Style.FontSize,
		ColorFrom:      c.Style.ColorFrom,
		ColorTo:        c.Style.ColorTo,
		Bands:          c.Style.Bands,
		MissingColor:   c.Style.MissingColor,
		HighlightColor: c.Style.HighlightColor,
		PanelWidth:     c.Style.PanelWidth,
		PanelHeight:    c.Style.PanelHeight,
	}
}

func (c *Config) RedisTTL() time.Duration {
	return time.Duration(c.Redis.TTLMinutes) * time.Minute
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Server.RefreshScheduleMinutes) * time.Minute
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resourceFile string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resourceFile)
}
