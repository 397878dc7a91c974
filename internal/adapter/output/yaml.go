package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/carlogos/internal/model"
)

// YAMLFormatter formats logos as a YAML sequence.
type YAMLFormatter struct {
	opts FormatterOptions
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(opts FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

// Format writes logos as YAML.
func (f *YAMLFormatter) Format(w io.Writer, logos []model.Logo) error {
	if logos == nil {
		logos = []model.Logo{}
	}
	return f.encode(w, logos)
}

// FormatSingle writes a single logo as a YAML mapping.
func (f *YAMLFormatter) FormatSingle(w io.Writer, l *model.Logo) error {
	return f.encode(w, l)
}

func (f *YAMLFormatter) encode(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}
