package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/jmylchreest/carlogos/internal/store"
)

// RunOptions configures the TUI.
type RunOptions struct {
	Options
	StatePath string // State file to watch for theme changes (empty = no watching)
}

// Run starts the TUI and blocks until it exits.
func Run(opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	zone.NewGlobal()

	m := New(opts.Options)
	defer m.Close()

	// Another process changing the theme is picked up on the loop.
	var watcher *store.FileWatcher
	if opts.StatePath != "" {
		var err error
		watcher, err = store.NewFileWatcher(opts.StatePath, func() {
			m.Dispatch(func() { m.Controller().ReloadTheme() })
		})
		if err != nil {
			logger.Warn("failed to create state watcher", "error", err)
		} else if err := watcher.Start(); err != nil {
			logger.Warn("failed to start state watcher", "error", err)
		}
	}

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if m.cfg.TUI.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}

	_, err := tea.NewProgram(m, progOpts...).Run()

	if watcher != nil {
		_ = watcher.Stop()
	}

	return err
}
