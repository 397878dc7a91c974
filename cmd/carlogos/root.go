// Package main provides the CLI entrypoint for carlogos.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/carlogos/internal/config"
	"github.com/jmylchreest/carlogos/internal/loader"
	"github.com/jmylchreest/carlogos/internal/store"
	"github.com/jmylchreest/carlogos/internal/theme"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		stateFile  string
		source     string
	}
	logger *slog.Logger

	// stateFile holds the persisted theme preference
	stateFile *store.StateFile
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "carlogos",
	Short: "Terminal browser for the car brand logo dataset",
	Long: `carlogos browses the car brand logo dataset from the terminal.

It fetches the dataset once, shows it as a searchable grid of logo cards and
opens a logo's source page in the browser. The light/dark theme is remembered
between runs.

Running carlogos without a subcommand launches the interactive TUI.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup logging
		setupLogger()

		// Load configuration
		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if globalOpts.source != "" {
			cfg.Source.URL = globalOpts.source
		}

		// Use custom state file path if specified, otherwise use default
		statePath := globalOpts.stateFile
		if statePath == "" {
			if err := config.EnsureDataDir(); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			statePath = config.StatePath()
		} else if err := os.MkdirAll(filepath.Dir(statePath), 0o755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
		stateFile = store.NewStateFile(statePath)

		return nil
	},
	// Default to TUI when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/carlogos/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.stateFile, "state-file", "",
		"Path to state file (default: ~/.local/share/carlogos/state.json)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.source, "source", "",
		"Dataset location: http(s) URL, file path, or - for stdin")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// newLoader creates the dataset loader for the configured source, logging
// through l.
func newLoader(l *slog.Logger) (*loader.Loader, error) {
	src, err := loader.NewSource(cfg.Source.URL, loader.HTTPConfig{
		Timeout:   cfg.Source.Timeout.Duration(),
		UserAgent: cfg.Source.UserAgent,
		Logger:    l,
	})
	if err != nil {
		return nil, err
	}
	return loader.New(src, l), nil
}

// defaultTheme returns the configured theme used when none is stored.
func defaultTheme() theme.Theme {
	t, err := theme.Parse(cfg.Theme.Default)
	if err != nil {
		logger.Warn("invalid default theme in config", "value", cfg.Theme.Default, "error", err)
		return theme.Default
	}
	return t
}

// getConfig returns the global config instance.
func getConfig() *config.Config {
	return cfg
}
