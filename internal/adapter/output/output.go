// Package output provides output formatters for logo listings.
package output

import (
	"io"

	"github.com/jmylchreest/carlogos/internal/model"
)

// Formatter formats logos for output.
type Formatter interface {
	// Format writes formatted logos to the writer.
	Format(w io.Writer, logos []model.Logo) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatDmenu FormatType = "dmenu"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatPlain FormatType = "plain"
	FormatSlugs FormatType = "slugs"
)

// Formats lists the supported format names.
var Formats = []FormatType{FormatDmenu, FormatJSON, FormatYAML, FormatPlain, FormatSlugs}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatPlain:
		return NewPlainFormatter(opts)
	case FormatSlugs:
		return NewSlugsFormatter()
	case FormatDmenu:
		fallthrough
	default:
		return NewDmenuFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template   string // Custom template for dmenu/plain format
	ShowIndex  bool   // Show 1-based index prefix
	ShowSlug   bool   // Show slug column
	ShowSource bool   // Show source host
	NameMaxLen int    // Maximum name length (0 = unlimited)
	Separator  string // Field separator for dmenu format
}

// DefaultFormatterOptions returns sensible defaults for dmenu output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex: true,
		ShowSlug:  true,
		Separator: " | ",
	}
}
