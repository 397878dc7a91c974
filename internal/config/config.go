// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// AppName is used for the XDG config and data directory names.
const AppName = "carlogos"

// Default configuration values.
const (
	DefaultDataURL      = "https://raw.githubusercontent.com/jonhtechywe-maker/car-brand-logo-dataset/main/logos/data.json"
	DefaultFetchTimeout = 30 * time.Second
	DefaultUserAgent    = "carlogos/1.0"
	DefaultDebounce     = 300 * time.Millisecond
	DefaultTheme        = "dark"
	DefaultPreviewWidth = 24
	DefaultDmenuTmpl    = "{{.Index}} | {{.Logo.Name}} | {{.Logo.Slug}}"
	DefaultPlainTmpl    = ""
)

// Config represents the carlogos configuration.
type Config struct {
	Source    SourceConfig    `toml:"source"`
	Search    SearchConfig    `toml:"search"`
	Theme     ThemeConfig     `toml:"theme"`
	TUI       TUIConfig       `toml:"tui"`
	Browser   BrowserConfig   `toml:"browser"`
	Clipboard ClipboardConfig `toml:"clipboard"`
	Templates TemplatesConfig `toml:"templates"`
}

// SourceConfig describes where the logo dataset is loaded from.
type SourceConfig struct {
	URL       string   `toml:"url"`        // http(s) URL, file path, or "-" for stdin
	Timeout   Duration `toml:"timeout"`    // Whole-request timeout
	UserAgent string   `toml:"user_agent"` // Sent with every request
}

// SearchConfig holds search behaviour.
type SearchConfig struct {
	Debounce Duration `toml:"debounce"` // Quiet period before a search runs
}

// ThemeConfig holds theme settings.
type ThemeConfig struct {
	Default string `toml:"default"` // Used when no preference is stored (dark, light)
}

// TUIConfig holds TUI-specific settings.
type TUIConfig struct {
	ShowHelp     bool `toml:"show_help"`
	Animate      bool `toml:"animate"`       // Staggered card entrance
	Preview      bool `toml:"preview"`       // Draw the selected logo image
	PreviewWidth int  `toml:"preview_width"` // Preview width in cells
	Mouse        bool `toml:"mouse"`         // Click cards to open them
}

// BrowserConfig holds settings for opening logo sources.
type BrowserConfig struct {
	Command string `toml:"command"` // Auto-detected if empty
}

// ClipboardConfig holds clipboard settings (TUI only).
type ClipboardConfig struct {
	Command string `toml:"command"` // Auto-detected if empty
}

// TemplatesConfig holds output templates.
type TemplatesConfig struct {
	Dmenu  string            `toml:"dmenu"`
	Plain  string            `toml:"plain"`
	Custom map[string]string `toml:"custom"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			URL:       DefaultDataURL,
			Timeout:   Duration(DefaultFetchTimeout),
			UserAgent: DefaultUserAgent,
		},
		Search: SearchConfig{
			Debounce: Duration(DefaultDebounce),
		},
		Theme: ThemeConfig{
			Default: DefaultTheme,
		},
		TUI: TUIConfig{
			ShowHelp:     true,
			Animate:      true,
			Preview:      true,
			PreviewWidth: DefaultPreviewWidth,
			Mouse:        true,
		},
		Browser: BrowserConfig{
			Command: "", // Auto-detect
		},
		Clipboard: ClipboardConfig{
			Command: "", // Auto-detect
		},
		Templates: TemplatesConfig{
			Dmenu:  DefaultDmenuTmpl,
			Plain:  DefaultPlainTmpl,
			Custom: make(map[string]string),
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName, "config.toml")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName)
}

// StatePath returns the path to the persisted preference file.
func StatePath() string {
	return filepath.Join(DataPath(), "state.json")
}

// LogPath returns the path of the log file used while the TUI owns the terminal.
func LogPath() string {
	return filepath.Join(DataPath(), "carlogos.log")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyFallbacks()
	return cfg, nil
}

// applyFallbacks restores defaults for values a config file blanked out.
func (c *Config) applyFallbacks() {
	if c.Source.URL == "" {
		c.Source.URL = DefaultDataURL
	}
	if c.Source.Timeout <= 0 {
		c.Source.Timeout = Duration(DefaultFetchTimeout)
	}
	if c.Search.Debounce < 0 {
		c.Search.Debounce = Duration(DefaultDebounce)
	}
	if c.Theme.Default == "" {
		c.Theme.Default = DefaultTheme
	}
	if c.TUI.PreviewWidth <= 0 {
		c.TUI.PreviewWidth = DefaultPreviewWidth
	}
	if c.Templates.Custom == nil {
		c.Templates.Custom = make(map[string]string)
	}
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetTemplate returns the template for the given name.
// First checks custom templates, then built-in ones.
// Returns empty string if not found.
func (c *Config) GetTemplate(name string) string {
	if tmpl, ok := c.Templates.Custom[name]; ok {
		return tmpl
	}

	switch name {
	case "dmenu":
		return c.Templates.Dmenu
	case "plain":
		return c.Templates.Plain
	default:
		return ""
	}
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	path := DataPath()
	if path == "" {
		return errors.New("unable to determine data directory")
	}
	return os.MkdirAll(path, 0755)
}
