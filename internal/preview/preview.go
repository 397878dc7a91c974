// Package preview draws logo images as terminal half-block art.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	gocache "github.com/patrickmn/go-cache"

	"github.com/jmylchreest/carlogos/internal/grid"
)

// MaxImageSize bounds a downloaded image.
const MaxImageSize = 8 << 20

// DefaultWidth is the preview width in cells.
const DefaultWidth = 24

// DefaultRetryAfter is how long a transient image failure is remembered.
const DefaultRetryAfter = time.Minute

// ErrNoImage is returned for an empty image URL.
var ErrNoImage = errors.New("no image URL")

// StatusError is an unsuccessful image response.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching image: status %d", e.Status)
}

// Options configures a Renderer.
type Options struct {
	Client     *http.Client
	UserAgent  string
	Width      int
	Background string        // "#rrggbb" behind transparent pixels
	RetryAfter time.Duration // How long transient failures are remembered
	Logger     *slog.Logger
}

// Result is a rendered preview.
type Result struct {
	URL         string // Image actually drawn, empty for the placeholder
	Art         string
	Fallback    bool // The fallback image was used
	Placeholder bool // Both images failed
}

// Renderer fetches, decodes and renders images. Rendered art and permanent
// failures live in memory for the process lifetime; transient failures are
// forgotten after RetryAfter. Safe for concurrent use.
type Renderer struct {
	client     *http.Client
	userAgent  string
	width      int
	background string
	retryAfter time.Duration
	cache      *gocache.Cache
	logger     *slog.Logger
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bg := opts.Background
	if bg == "" {
		bg = "#000000"
	}
	retryAfter := opts.RetryAfter
	if retryAfter <= 0 {
		retryAfter = DefaultRetryAfter
	}
	return &Renderer{
		client:     client,
		userAgent:  opts.UserAgent,
		width:      width,
		background: bg,
		retryAfter: retryAfter,
		cache:      gocache.New(gocache.NoExpiration, 10*time.Minute),
		logger:     logger,
	}
}

// Width returns the art width in cells.
func (r *Renderer) Width() int {
	return r.width
}

// Render draws the card's display image. If it cannot be loaded the card's
// fallback image is tried once, and if that fails too a monogram
// placeholder is returned.
func (r *Renderer) Render(ctx context.Context, card grid.Card) Result {
	art, err := r.Art(ctx, card.Image)
	if err == nil {
		return Result{URL: card.Image, Art: art}
	}
	r.logger.Debug("display image failed", "logo", card.Name, "url", card.Image, "error", err)

	if card.FallbackImage != "" {
		art, ferr := r.Art(ctx, card.FallbackImage)
		if ferr == nil {
			return Result{URL: card.FallbackImage, Art: art, Fallback: true}
		}
		r.logger.Debug("fallback image failed", "logo", card.Name, "url", card.FallbackImage, "error", ferr)
	}

	return Result{Art: Placeholder(card.Logo.Initials(), r.width), Placeholder: true}
}

// Art returns the rendered art for rawURL. Failures are remembered too:
// permanent ones for good, transient ones for RetryAfter.
func (r *Renderer) Art(ctx context.Context, rawURL string) (string, error) {
	if rawURL == "" {
		return "", ErrNoImage
	}
	key := r.key(rawURL)
	if v, ok := r.cache.Get(key); ok {
		switch v := v.(type) {
		case string:
			return v, nil
		case error:
			return "", v
		}
	}

	art, err := r.render(ctx, rawURL)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			// Cancellation is not a property of the image.
		case permanent(err):
			r.cache.Set(key, err, gocache.NoExpiration)
		default:
			r.cache.Set(key, err, r.retryAfter)
		}
		return "", err
	}
	r.cache.Set(key, art, gocache.NoExpiration)
	return art, nil
}

// permanent reports whether retrying rawURL cannot help: the bytes are not
// an image, the file is missing, or the server refused the request.
func permanent(err error) bool {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return true
	}
	if errors.Is(err, os.ErrNotExist) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Status {
		case http.StatusRequestTimeout, http.StatusTooManyRequests:
			return false
		}
		return statusErr.Status >= 400 && statusErr.Status < 500
	}
	return false
}

func (r *Renderer) key(rawURL string) string {
	return fmt.Sprintf("%s|%d|%s", rawURL, r.width, r.background)
}

func (r *Renderer) render(ctx context.Context, rawURL string) (string, error) {
	data, err := r.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	img, err := Decode(data)
	if err != nil {
		return "", err
	}
	return HalfBlocks(Scale(img, r.width, parseHex(r.background))), nil
}

func (r *Renderer) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		path := strings.TrimPrefix(rawURL, "file://")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading image: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageSize))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return data, nil
}

// Placeholder draws a square box holding the initials.
func Placeholder(initials string, width int) string {
	if width < 4 {
		width = 4
	}
	height := width / 2
	if height < 3 {
		height = 3
	}
	return lipgloss.NewStyle().
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Bold(true).
		Render(initials)
}
