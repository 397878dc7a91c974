package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/jmylchreest/carlogos/internal/model"
)

// DmenuFormatter formats logos for dmenu/rofi/fuzzel, one per line.
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	f := &DmenuFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("dmenu").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes logos in dmenu format.
func (f *DmenuFormatter) Format(w io.Writer, logos []model.Logo) error {
	for i := range logos {
		line := f.formatLine(i+1, &logos[i])
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (f *DmenuFormatter) formatLine(index int, l *model.Logo) string {
	if f.template != nil {
		var buf strings.Builder
		if err := f.template.Execute(&buf, newTemplateData(index, l)); err == nil {
			return buf.String()
		}
	}

	// Default format: [index] name [slug] [host]
	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	var parts []string
	if f.opts.ShowIndex {
		parts = append(parts, fmt.Sprintf("%d", index))
	}
	parts = append(parts, truncate(singleLine(l.Name), f.opts.NameMaxLen))
	if f.opts.ShowSlug {
		parts = append(parts, l.Slug)
	}
	if f.opts.ShowSource {
		if host := l.SourceHost(); host != "" {
			parts = append(parts, host)
		}
	}

	return strings.Join(parts, sep)
}

// ParseDmenuLine extracts the logo reference from a line produced by the
// default dmenu format: the slug column when present, else the whole line.
func ParseDmenuLine(line, sep string) string {
	if sep == "" {
		sep = " | "
	}
	line = strings.TrimSpace(line)
	parts := strings.Split(line, strings.TrimSpace(sep))
	if len(parts) < 2 {
		return line
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	// index | name | slug
	if len(parts) >= 3 {
		return parts[2]
	}
	// index | name, or name | slug
	if _, err := strconv.Atoi(parts[0]); err == nil {
		return parts[0]
	}
	return parts[1]
}

// templateData provides data for custom templates.
type templateData struct {
	Index    int
	Logo     *model.Logo
	Image    string
	Fallback string
	Host     string
}

func newTemplateData(index int, l *model.Logo) templateData {
	return templateData{
		Index:    index,
		Logo:     l,
		Image:    l.DisplayImage(),
		Fallback: l.FallbackImage(),
		Host:     l.SourceHost(),
	}
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": truncate,
		"lower":    strings.ToLower,
		"upper":    strings.ToUpper,
		"file":     model.ImageFile,
		"pad": func(s string, width int) string {
			if len(s) >= width {
				return s
			}
			return s + strings.Repeat(" ", width-len(s))
		},
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 || len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// singleLine collapses whitespace so a value fits on one line.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
