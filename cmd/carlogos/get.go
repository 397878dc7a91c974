package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/carlogos/internal/adapter/output"
	"github.com/jmylchreest/carlogos/internal/app"
	"github.com/jmylchreest/carlogos/internal/core"
	"github.com/jmylchreest/carlogos/internal/grid"
	"github.com/jmylchreest/carlogos/internal/loader"
	"github.com/jmylchreest/carlogos/internal/model"
)

var getOpts struct {
	// Filter options
	search string
	limit  int

	// Sort options
	sortBy    string
	sortOrder string

	// Output options
	format   string
	field    string
	template string
	count    bool
}

var getCmd = &cobra.Command{
	Use:   "get [index|slug]",
	Short: "Query and output the logo dataset",
	Long: `Query the logo dataset and output it in various formats.

Without arguments, outputs all logos in dmenu format (suitable for
fuzzel, walker, rofi, etc.).

With an index (1-based) or slug argument, outputs that specific logo.

Examples:
  # List all logos in dmenu format
  carlogos get

  # Search by brand name or slug
  carlogos get --search toy

  # Get a specific logo by slug and print its source URL
  carlogos get toyota --field source

  # Output as YAML, sorted by name
  carlogos get --format yaml --sort name

  # Pick with fuzzel and open the source page
  carlogos get | fuzzel -d | carlogos open -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	// Filter flags
	getCmd.Flags().StringVarP(&getOpts.search, "search", "s", "",
		"Search in brand name and slug")
	getCmd.Flags().IntVarP(&getOpts.limit, "limit", "n", 0,
		"Maximum number of logos to show (0=unlimited)")

	// Sort flags
	getCmd.Flags().StringVar(&getOpts.sortBy, "sort", "dataset",
		"Sort by field (dataset, name, slug)")
	getCmd.Flags().StringVar(&getOpts.sortOrder, "order", "asc",
		"Sort order (asc, desc)")

	// Output flags
	getCmd.Flags().StringVarP(&getOpts.format, "format", "f", "dmenu",
		"Output format (dmenu, json, yaml, plain, slugs)")
	getCmd.Flags().StringVar(&getOpts.field, "field", "",
		"Output single field from a logo (name, slug, image, optimized, thumb, original, source, all)")
	getCmd.Flags().StringVar(&getOpts.template, "template", "",
		"Custom Go template (or named template from config) for output formatting")
	getCmd.Flags().BoolVar(&getOpts.count, "count", false,
		"Print only the result count label")
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), fetchDeadline())
	defer cancel()

	ctrl, view, err := loadLogos(ctx, getOpts.search)
	if err != nil {
		return err
	}

	logos := ctrl.Filtered()

	// If looking up a specific logo
	if len(args) > 0 {
		l := core.Lookup(logos, args[0])
		if l == nil {
			return fmt.Errorf("logo not found: %s", args[0])
		}
		return outputSingle(cmd, l)
	}

	if getOpts.count {
		fmt.Fprintln(cmd.OutOrStdout(), view.count)
		return nil
	}

	logos = core.Sort(logos, core.SortOptions{
		Field: core.ParseSortField(getOpts.sortBy),
		Order: core.ParseSortOrder(getOpts.sortOrder),
	})
	if getOpts.limit > 0 && len(logos) > getOpts.limit {
		logos = logos[:getOpts.limit]
	}

	return outputLogos(cmd.OutOrStdout(), logos)
}

// loadLogos runs the controller against a headless view, fetching the
// dataset and applying term.
func loadLogos(ctx context.Context, term string) (*app.Controller, *listView, error) {
	ld, err := newLoader(logger)
	if err != nil {
		return nil, nil, err
	}

	view := &listView{}
	ctrl := app.New(app.Options{
		View:         view,
		Fetcher:      ld,
		Opener:       grid.OpenerFunc(openURL),
		Preferences:  stateFile,
		DefaultTheme: defaultTheme(),
		Logger:       logger,
	})
	defer ctrl.Stop()

	logger.Debug("fetching logos", "source", ld.Source().Location())
	if err := ctrl.Start(ctx); err != nil {
		if loader.IsFetchError(err) {
			return nil, nil, fmt.Errorf("failed to load logos: %w", err)
		}
		return nil, nil, err
	}

	all := ctrl.All()
	for i := range all {
		l := &all[i]
		if err := l.Validate(); err != nil {
			logger.Warn("incomplete logo record", "index", i+1, "slug", l.Slug, "error", err)
		}
	}

	info := ctrl.Info()
	logger.Debug("fetched logos",
		"fetch_id", info.ID,
		"count", humanize.Comma(int64(info.Count)),
		"size", humanize.Bytes(uint64(info.Bytes)),
		"duration", info.Duration)

	if term != "" {
		ctrl.Search(term)
	}
	return ctrl, view, nil
}

// fetchDeadline bounds a whole CLI fetch.
func fetchDeadline() time.Duration {
	if d := cfg.Source.Timeout.Duration(); d > 0 {
		return d + 5*time.Second
	}
	return 35 * time.Second
}

// outputSingle outputs a single logo.
func outputSingle(cmd *cobra.Command, l *model.Logo) error {
	w := cmd.OutOrStdout()
	if getOpts.field != "" {
		fmt.Fprintln(w, output.FormatField(l, getOpts.field))
		return nil
	}

	// Default to JSON for a single logo
	format := output.FormatType(getOpts.format)
	if !cmd.Flags().Changed("format") {
		format = output.FormatJSON
	}

	switch format {
	case output.FormatYAML:
		return output.NewYAMLFormatter(output.DefaultFormatterOptions()).FormatSingle(w, l)
	case output.FormatJSON:
		return output.NewJSONFormatter(output.DefaultFormatterOptions()).FormatSingle(w, l)
	default:
		return outputLogos(w, []model.Logo{*l})
	}
}

// outputLogos outputs logos in the requested format.
func outputLogos(w io.Writer, logos []model.Logo) error {
	if getOpts.field != "" {
		for i := range logos {
			fmt.Fprintln(w, output.FormatField(&logos[i], getOpts.field))
		}
		return nil
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = resolveTemplate(getOpts.template, getOpts.format)

	format := output.FormatType(strings.ToLower(getOpts.format))
	if !slices.Contains(output.Formats, format) {
		return fmt.Errorf("unknown format: %s (valid: %s)", getOpts.format, formatList())
	}
	return output.NewFormatter(format, opts).Format(w, logos)
}

// resolveTemplate resolves a --template value: a named template from config,
// a literal template, or the configured default for the format.
func resolveTemplate(tmpl, format string) string {
	if tmpl != "" {
		if named := cfg.GetTemplate(tmpl); named != "" {
			return named
		}
		return tmpl
	}
	return cfg.GetTemplate(format)
}

func formatList() string {
	names := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
