package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/carlogos/internal/theme"
)

var themeOpts struct {
	json bool
}

// ThemeStatus is the JSON form of the theme command's output.
type ThemeStatus struct {
	Theme   string `json:"theme"`
	Icon    string `json:"icon"`
	Stored  bool   `json:"stored"`
	SavedAt int64  `json:"saved_at,omitempty"`
}

var themeCmd = &cobra.Command{
	Use:   "theme [toggle|dark|light|reset]",
	Short: "Show or change the persisted theme",
	Long: `Show or change the light/dark theme preference.

Without arguments, prints the current theme. "toggle" flips it; "dark" or
"light" sets it; "reset" forgets the stored preference so the configured
default applies. A running TUI picks the change up immediately.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"toggle", string(theme.Dark), string(theme.Light), "reset"},
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)

	themeCmd.Flags().BoolVar(&themeOpts.json, "json", false,
		"Output as JSON")
}

func runTheme(cmd *cobra.Command, args []string) error {
	store := theme.NewStore(stateFile, nil, defaultTheme(), logger)
	current := store.Init()

	if len(args) > 0 {
		switch args[0] {
		case "reset":
			if err := stateFile.Delete(theme.PreferenceKey); err != nil {
				return fmt.Errorf("failed to reset theme: %w", err)
			}
			current = store.Init()
		case "toggle":
			current = store.Toggle()
		default:
			t, err := theme.Parse(args[0])
			if err != nil {
				return err
			}
			current = store.Set(t)
		}
	}

	status := ThemeStatus{
		Theme: current.String(),
		Icon:  current.Icon(),
	}
	if _, ok := stateFile.Get(theme.PreferenceKey); ok {
		status.Stored = true
		if state, err := stateFile.Load(); err == nil {
			status.SavedAt = state.UpdatedAt
		}
	}

	if themeOpts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		return enc.Encode(status)
	}

	line := fmt.Sprintf("%s %s", status.Icon, status.Theme)
	switch {
	case status.SavedAt > 0:
		line += fmt.Sprintf(" (saved %s)", humanize.Time(time.Unix(status.SavedAt, 0)))
	case !status.Stored:
		line += " (default)"
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
	return nil
}
