package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/jmylchreest/carlogos/internal/model"
)

// PlainFormatter formats logos as readable text blocks.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes logos as plain text.
func (f *PlainFormatter) Format(w io.Writer, logos []model.Logo) error {
	for i := range logos {
		if err := f.formatLogo(w, i+1, &logos[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatLogo(w io.Writer, index int, l *model.Logo) error {
	if f.template != nil {
		return f.template.Execute(w, newTemplateData(index, l))
	}

	var sb strings.Builder

	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("[%d] ", index))
	}
	sb.WriteString(l.Name)
	if f.opts.ShowSlug && l.Slug != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", l.Slug))
	}
	sb.WriteString("\n")

	if img := l.DisplayImage(); img != "" {
		sb.WriteString("    image:  " + img + "\n")
	}
	if l.HasSource() {
		sb.WriteString("    source: " + l.Image.Source + "\n")
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}

// FormatField outputs a specific field from a logo.
func FormatField(l *model.Logo, field string) string {
	switch strings.ToLower(field) {
	case "name":
		return l.Name
	case "slug":
		return l.Slug
	case "image", "display":
		return l.DisplayImage()
	case "fallback":
		return l.FallbackImage()
	case "optimized":
		return l.Image.Optimized
	case "thumb":
		return l.Image.Thumb
	case "original":
		return l.Image.Original
	case "source", "url":
		return l.Image.Source
	case "host":
		return l.SourceHost()
	case "all", "full":
		return fmt.Sprintf("%s\n%s\n%s", l.Name, l.DisplayImage(), l.Image.Source)
	default:
		return l.Name
	}
}
