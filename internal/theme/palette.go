package theme

import "github.com/charmbracelet/lipgloss"

// Palette holds the semantic colours of a theme.
type Palette struct {
	Background    lipgloss.Color
	Surface       lipgloss.Color // Card background
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Text          lipgloss.Color
	TextMuted     lipgloss.Color
	Accent        lipgloss.Color
	Error         lipgloss.Color
	Success       lipgloss.Color
}

var darkPalette = Palette{
	Background:    lipgloss.Color("#0f1117"),
	Surface:       lipgloss.Color("#1a1d27"),
	Border:        lipgloss.Color("#2e3240"),
	BorderFocused: lipgloss.Color("#7aa2f7"),
	Text:          lipgloss.Color("#e6e8ef"),
	TextMuted:     lipgloss.Color("#8a8fa3"),
	Accent:        lipgloss.Color("#7aa2f7"),
	Error:         lipgloss.Color("#f7768e"),
	Success:       lipgloss.Color("#9ece6a"),
}

var lightPalette = Palette{
	Background:    lipgloss.Color("#f7f7fa"),
	Surface:       lipgloss.Color("#ffffff"),
	Border:        lipgloss.Color("#d5d8e0"),
	BorderFocused: lipgloss.Color("#2e59d9"),
	Text:          lipgloss.Color("#1d2030"),
	TextMuted:     lipgloss.Color("#62677a"),
	Accent:        lipgloss.Color("#2e59d9"),
	Error:         lipgloss.Color("#c4314b"),
	Success:       lipgloss.Color("#2f7d32"),
}

// PaletteFor returns the palette of t.
func PaletteFor(t Theme) Palette {
	if t == Light {
		return lightPalette
	}
	return darkPalette
}
