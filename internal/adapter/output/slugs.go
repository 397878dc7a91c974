package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/carlogos/internal/model"
)

// SlugsFormatter outputs just the slugs, one per line.
// Useful for piping to other commands (e.g., carlogos open).
type SlugsFormatter struct{}

// NewSlugsFormatter creates a new slugs formatter.
func NewSlugsFormatter() *SlugsFormatter {
	return &SlugsFormatter{}
}

// Format writes slugs to the writer, one per line.
func (f *SlugsFormatter) Format(w io.Writer, logos []model.Logo) error {
	for _, l := range logos {
		if _, err := fmt.Fprintln(w, l.Slug); err != nil {
			return err
		}
	}
	return nil
}
