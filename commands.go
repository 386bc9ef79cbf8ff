package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"listen-heatmap/calendar"
	"listen-heatmap/config"
	"listen-heatmap/di"
)

var (
	configPath string
	verbose    bool

	renderYear   int
	renderMetric string
	renderOutput string

	shareOutput string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "listen-heatmap",
	Short: "Calendar heatmaps of listening history",
	Long: `listen-heatmap turns streaming history exports into a calendar heatmap:
one panel per month, weeks as rows, weekdays as columns, with highlighted
dates framed and listed in a single legend.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFromFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}

		logger, err = newLogger(cfg.Logging.Level, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var renderCmd = &cobra.Command{
	Use:     "render",
	Short:   "Render the heatmap of one year to an HTML file",
	Example: `  listen-heatmap render --year 2023 --metric songs --output songs_2023.html`,
	RunE:    runRender,
}

var shareCmd = &cobra.Command{
	Use:   "share [field]",
	Short: "Render the share breakdown of a record field as a pie chart",
	Args:  cobra.ExactArgs(1),
	RunE:  runShare,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve heatmaps over HTTP",
	RunE:  runServe,
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List the registered metrics and share fields with the cache state",
	RunE:  runMetrics,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: ./config/heatmap.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	renderCmd.Flags().IntVar(&renderYear, "year", 0, "year to render (overrides config)")
	renderCmd.Flags().StringVar(&renderMetric, "metric", "", "metric to render (overrides config)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output HTML file (overrides config)")

	shareCmd.Flags().StringVarP(&shareOutput, "output", "o", "", "output HTML file (default: <field>_shares.html)")

	rootCmd.AddCommand(renderCmd, shareCmd, serveCmd, metricsCmd)
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	return zapConfig.Build()
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderYear != 0 {
		cfg.Year = renderYear
	}
	if renderMetric != "" {
		cfg.Metric = renderMetric
	}
	if renderOutput != "" {
		cfg.Output = renderOutput
	}

	ctx := cmd.Context()
	container, err := di.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	// The file is only created once the whole page rendered.
	var buf bytes.Buffer
	if err := container.HeatmapService.RenderYear(ctx, &buf, cfg.Year, cfg.Metric); err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Output, err)
	}
	logger.Info("Heatmap written", zap.String("path", cfg.Output), zap.Int("year", cfg.Year), zap.String("metric", cfg.Metric))
	fmt.Fprintf(cmd.OutOrStdout(), "Heatmap generated: %s\n", cfg.Output)
	return nil
}

func runShare(cmd *cobra.Command, args []string) error {
	field := args[0]
	output := shareOutput
	if output == "" {
		output = field + "_shares.html"
	}

	ctx := cmd.Context()
	container, err := di.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	var buf bytes.Buffer
	if err := container.HeatmapService.RenderShares(ctx, &buf, field); err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Share chart generated: %s\n", output)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	container, err := di.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	if err := container.SeriesRefresherService.RefreshSeries(ctx); err != nil {
		logger.Warn("Initial refresh failed, serving will retry on demand", zap.Error(err))
	}
	if interval := cfg.RefreshInterval(); interval > 0 {
		container.SeriesRefresherService.StartPeriodicJob(ctx, interval)
	}

	return container.ListeningHttpServer.Start(ctx)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	container, err := di.NewContainer(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	names, err := container.HeatmapService.MetricNames()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "metrics: %s\n", strings.Join(names.Metrics, ", "))
	fmt.Fprintf(out, "shares:  %s\n", strings.Join(names.Shares, ", "))
	fmt.Fprintf(out, "cached:  %s\n", strings.Join(names.Cached, ", "))
	if h := names.History; h != nil {
		fmt.Fprintf(out, "history: %d records from %s to %s\n",
			h.Records, h.FirstDay.Format(calendar.DateLayout), h.LastDay.Format(calendar.DateLayout))
	}
	return nil
}
