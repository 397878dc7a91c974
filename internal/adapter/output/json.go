package output

import (
	"encoding/json"
	"io"

	"github.com/jmylchreest/carlogos/internal/model"
)

// JSONFormatter formats logos as JSON, in the dataset's own shape.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Format writes logos as a JSON array.
func (f *JSONFormatter) Format(w io.Writer, logos []model.Logo) error {
	if logos == nil {
		logos = []model.Logo{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(logos)
}

// FormatSingle writes a single logo as JSON.
func (f *JSONFormatter) FormatSingle(w io.Writer, l *model.Logo) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(l)
}
