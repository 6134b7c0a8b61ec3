package cmd

import (
	"errors"
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/cafeteria-insights/internal/config"
	"github.com/KaramelBytes/cafeteria-insights/internal/dashboard"
	"github.com/KaramelBytes/cafeteria-insights/internal/dataset"
	"github.com/KaramelBytes/cafeteria-insights/internal/logging"
	"github.com/KaramelBytes/cafeteria-insights/internal/metrics"
	"github.com/KaramelBytes/cafeteria-insights/internal/preprocess"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile      string
	debug        bool
	flagDataPath string
	flagLayout   string

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "cafeteria",
	Short: "Campus cafeteria satisfaction analysis dashboard",
	Long: `cafeteria loads a cafeteria survey file and serves an exploratory dashboard:
dataset overview, statistical summary, missing-value preprocessing, charts and insights.
The same sections can be rendered to Markdown and PNG files from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fail(os.Stderr, "Error: %v", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.cafeteria/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDataPath, "data", "", "survey file (CSV, TSV or XLSX; overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLayout, "layout", "", "navigation layout: split|combined (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need config report it themselves
		warn(os.Stderr, "Warning: failed to load config: %v", err)
		cfg = nil
		return
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagDataPath != "" {
		cfg.DataPath = flagDataPath
	}
	if f.Changed("layout") && flagLayout != "" {
		cfg.Layout = flagLayout
	}
	if debug {
		cfg.LogLevel = "debug"
	}

	l, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		warn(os.Stderr, "Warning: %v", err)
		return
	}
	logger = l
}

// buildDashboard wires the dashboard from the loaded configuration.
func buildDashboard() (*dashboard.Dashboard, *metrics.Metrics, error) {
	if cfg == nil {
		return nil, nil, errors.New("no configuration loaded")
	}
	opt, err := cfg.DatasetOptions()
	if err != nil {
		return nil, nil, err
	}
	nav, err := dashboard.NewNavigation(cfg.Layout, cfg.Labels)
	if err != nil {
		return nil, nil, err
	}
	m := metrics.New()
	src := dataset.NewSource(cfg.DataPath, opt, logger)
	d := dashboard.New(dashboard.NewState(src), nav, cfg.DashboardSettings(),
		dashboard.WithLogger(logger),
		dashboard.WithMetrics(m),
		dashboard.WithCleaner(preprocess.NewCleaner(logger)))
	return d, m, nil
}

// preload loads the survey file and reports its shape.
func preload(cmd *cobra.Command, d *dashboard.Dashboard) error {
	rows, cols, err := d.Preload()
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.DataPath, err)
	}
	success(cmd.ErrOrStderr(), "Loaded %s (%d rows × %d columns)", cfg.DataPath, rows, cols)
	return nil
}
