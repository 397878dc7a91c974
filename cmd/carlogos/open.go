package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/carlogos/internal/adapter/output"
	"github.com/jmylchreest/carlogos/internal/browser"
	"github.com/jmylchreest/carlogos/internal/core"
)

var openOpts struct {
	search string
	print  bool
}

var openCmd = &cobra.Command{
	Use:   "open <index|slug|name|->",
	Short: "Open a logo's source page in the browser",
	Long: `Open the source page of a logo in the default browser.

The reference may be a 1-based index, a slug, a brand name, or a line produced
by "carlogos get". Use - to read the reference from stdin.

Examples:
  carlogos open toyota
  carlogos open 3 --search ford
  carlogos get | fuzzel -d | carlogos open -`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().StringVarP(&openOpts.search, "search", "s", "",
		"Resolve indexes against this search")
	openCmd.Flags().BoolVar(&openOpts.print, "print", false,
		"Print the source URL instead of opening it")
}

func runOpen(cmd *cobra.Command, args []string) error {
	ref := args[0]
	if ref == "-" {
		if cfg.Source.URL == "-" {
			return errors.New("cannot read both the dataset and the reference from stdin")
		}
		line, err := readLine(os.Stdin)
		if err != nil {
			return err
		}
		ref = line
	}
	ref = output.ParseDmenuLine(ref, output.DefaultFormatterOptions().Separator)
	if ref == "" {
		return errors.New("empty logo reference")
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchDeadline())
	defer cancel()

	ctrl, _, err := loadLogos(ctx, openOpts.search)
	if err != nil {
		return err
	}

	l := core.Lookup(ctrl.Filtered(), ref)
	if l == nil {
		return fmt.Errorf("logo not found: %s", ref)
	}
	if !l.HasSource() {
		return fmt.Errorf("logo %s has no source page", l.Slug)
	}

	if openOpts.print {
		fmt.Fprintln(os.Stdout, l.Image.Source)
		return nil
	}

	logger.Debug("opening source", "slug", l.Slug, "url", l.Image.Source)
	return openURL(l.Image.Source)
}

// openURL opens url with the configured browser command.
func openURL(url string) error {
	return browser.NewOpener(cfg.Browser.Command).Open(url)
}

// readLine reads the first non-empty line from r.
func readLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading reference: %w", err)
	}
	return "", errors.New("no reference on stdin")
}
