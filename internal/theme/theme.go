package theme

import (
	"fmt"
	"strings"
)

// Theme is the visual mode applied to the browser.
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// PreferenceKey is the storage key the preference is persisted under.
const PreferenceKey = "theme"

// Default is the theme used when nothing is stored.
const Default = Dark

// Parse parses a theme name.
func Parse(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dark":
		return Dark, nil
	case "light":
		return Light, nil
	default:
		return "", fmt.Errorf("unknown theme %q (want dark or light)", s)
	}
}

// Toggle returns the other theme. Anything that is not dark becomes dark.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Icon returns the toggle icon shown for the theme.
func (t Theme) Icon() string {
	if t == Dark {
		return "🌙"
	}
	return "☀️"
}

func (t Theme) String() string {
	return string(t)
}
