// Package browser launches external programs: the web browser for logo
// sources and the system clipboard.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

const commandTimeout = 5 * time.Second

// Errors returned by the launchers.
var (
	ErrNoCommand  = errors.New("no command available")
	ErrInvalidURL = errors.New("only http and https URLs can be opened")
)

// runner executes a command, feeding stdin when non-empty.
type runner func(ctx context.Context, name string, args []string, stdin string) error

func execRunner(ctx context.Context, name string, args []string, stdin string) error {
	c := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		c.Stdin = strings.NewReader(stdin)
	}
	return c.Run()
}

// Opener opens URLs in the user's browser.
type Opener struct {
	command  string
	goos     string
	run      runner
	lookPath func(string) (string, error)
}

// NewOpener creates an Opener. An empty command selects the platform
// default (open, rundll32 or xdg-open).
func NewOpener(command string) *Opener {
	return &Opener{
		command:  command,
		goos:     runtime.GOOS,
		run:      execRunner,
		lookPath: exec.LookPath,
	}
}

// Command returns the command line used for rawURL.
func (o *Opener) Command(rawURL string) ([]string, error) {
	if o.command != "" {
		parts := strings.Fields(o.command)
		if len(parts) == 0 {
			return nil, ErrNoCommand
		}
		return append(parts, rawURL), nil
	}

	switch o.goos {
	case "darwin":
		return []string{"open", rawURL}, nil
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler", rawURL}, nil
	default:
		if _, err := o.lookPath("xdg-open"); err != nil {
			return nil, fmt.Errorf("xdg-open: %w", ErrNoCommand)
		}
		return []string{"xdg-open", rawURL}, nil
	}
}

// Open launches the browser for rawURL. Only http(s) URLs are accepted, so a
// dataset record cannot run arbitrary handlers.
func (o *Opener) Open(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	argv, err := o.Command(u.String())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := o.run(ctx, argv[0], argv[1:], ""); err != nil {
		return fmt.Errorf("opening %s: %w", u, err)
	}
	return nil
}

// Clipboard copies text to the system clipboard.
type Clipboard struct {
	command  string
	run      runner
	lookPath func(string) (string, error)
}

// NewClipboard creates a Clipboard. An empty command is auto-detected.
func NewClipboard(command string) *Clipboard {
	return &Clipboard{
		command:  command,
		run:      execRunner,
		lookPath: exec.LookPath,
	}
}

// Detect returns the clipboard command line to use, or "" if none exists.
func (c *Clipboard) Detect() string {
	if c.command != "" {
		return c.command
	}
	// Wayland first, then X11
	if _, err := c.lookPath("wl-copy"); err == nil {
		return "wl-copy"
	}
	if _, err := c.lookPath("xclip"); err == nil {
		return "xclip -selection clipboard"
	}
	if _, err := c.lookPath("xsel"); err == nil {
		return "xsel --clipboard --input"
	}
	if _, err := c.lookPath("pbcopy"); err == nil {
		return "pbcopy"
	}
	return ""
}

// Copy writes text to the clipboard.
func (c *Clipboard) Copy(text string) error {
	parts := strings.Fields(c.Detect())
	if len(parts) == 0 {
		return fmt.Errorf("clipboard: %w", ErrNoCommand)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return c.run(ctx, parts[0], parts[1:], text)
}
