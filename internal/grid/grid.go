// Package grid turns logo records into cards on a View.
package grid

import (
	"time"

	"github.com/jmylchreest/carlogos/internal/model"
)

// Stagger timing for the card entrance animation.
const (
	StaggerStep = 50 * time.Millisecond
	StaggerMax  = time.Second
)

// Indicator identifies a status element of the view.
type Indicator int

const (
	IndicatorLoading Indicator = iota
	IndicatorError
	IndicatorNoResults
)

func (i Indicator) String() string {
	switch i {
	case IndicatorLoading:
		return "loading"
	case IndicatorError:
		return "error"
	case IndicatorNoResults:
		return "no-results"
	default:
		return "unknown"
	}
}

// View is the display surface the controller drives.
type View interface {
	Clear()
	AppendCard(card Card)
	SetIndicator(ind Indicator, visible bool)
	SetCount(label string)
	SetThemeIcon(icon string)
}

// Opener opens a URL outside the application.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string) error

// Open calls f(url).
func (f OpenerFunc) Open(url string) error { return f(url) }

// Card is the rendered form of one logo.
type Card struct {
	Index         int // Position within the rendered slice
	Logo          model.Logo
	Name          string
	Alt           string
	Image         string        // Shown first
	FallbackImage string        // Shown once after Image fails to load
	Delay         time.Duration // Entrance animation delay

	opener Opener
}

// NewCard builds the card for logos[index].
func NewCard(index int, logo model.Logo, opener Opener) Card {
	return Card{
		Index:         index,
		Logo:          logo,
		Name:          logo.Name,
		Alt:           logo.AltText(),
		Image:         logo.DisplayImage(),
		FallbackImage: logo.FallbackImage(),
		Delay:         StaggerDelay(index),
		opener:        opener,
	}
}

// Activate opens the logo's source page. A card without a source, or
// without an opener, does nothing.
func (c Card) Activate() error {
	if !c.Logo.HasSource() || c.opener == nil {
		return nil
	}
	return c.opener.Open(c.Logo.Image.Source)
}

// StaggerDelay returns min(index*StaggerStep, StaggerMax).
func StaggerDelay(index int) time.Duration {
	if index <= 0 {
		return 0
	}
	if index >= int(StaggerMax/StaggerStep) {
		return StaggerMax
	}
	return time.Duration(index) * StaggerStep
}

// Render replaces the view's cards with one card per logo, in order, and
// shows the no-results indicator exactly when logos is empty.
func Render(view View, logos []model.Logo, opener Opener) {
	view.Clear()
	for i, logo := range logos {
		view.AppendCard(NewCard(i, logo, opener))
	}
	view.SetIndicator(IndicatorNoResults, len(logos) == 0)
}
