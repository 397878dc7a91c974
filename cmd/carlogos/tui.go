package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/carlogos/internal/browser"
	"github.com/jmylchreest/carlogos/internal/config"
	"github.com/jmylchreest/carlogos/internal/tui"
)

var errStdinTUI = errors.New("the TUI reads keys from stdin; use a file or URL source")

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI browser",
	Long: `Launch the interactive terminal user interface for browsing logos.

The TUI provides:
  - Grid of logo cards with a staggered entrance
  - Debounced search by brand name or slug
  - Image preview of the selected logo
  - Light/dark theme toggle, remembered between runs
  - Mouse support: click a card to open its source

Key bindings:
  ←↓↑→, hjkl   Move selection
  enter        Open the logo's source page
  ctrl+k, /    Search
  i            Show details
  c            Copy source URL to clipboard
  t            Toggle theme
  r            Reload the dataset
  ?            Show help
  q            Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if cfg.Source.URL == "-" {
		return errStdinTUI
	}

	// The TUI owns the terminal, so log to a file instead of stderr.
	tuiLogger, closeLog := fileLogger()
	defer closeLog()

	ld, err := newLoader(tuiLogger)
	if err != nil {
		return err
	}

	return tui.Run(tui.RunOptions{
		Options: tui.Options{
			Config:      getConfig(),
			Fetcher:     ld,
			Preferences: stateFile,
			Opener:      browser.NewOpener(cfg.Browser.Command),
			Clipboard:   browser.NewClipboard(cfg.Clipboard.Command),
			Logger:      tuiLogger,
		},
		StatePath: stateFile.Path(),
	})
}

// fileLogger returns a logger writing to the log file, falling back to a
// discarding logger if the file cannot be opened.
func fileLogger() (*slog.Logger, func()) {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	if err := config.EnsureDataDir(); err == nil {
		f, err := os.OpenFile(config.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			l := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(l)
			return l, func() { f.Close() }
		}
		fmt.Fprintf(os.Stderr, "Warning: failed to open log file: %v\n", err)
	}

	l := slog.New(slog.DiscardHandler)
	slog.SetDefault(l)
	return l, func() {}
}
