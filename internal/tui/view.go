package tui

import (
	"github.com/jmylchreest/carlogos/internal/grid"
	"github.com/jmylchreest/carlogos/internal/theme"
)

// gridView is the grid.View the controller draws into. The Model reads it
// when rendering; both only run on the event loop.
type gridView struct {
	cards   []grid.Card
	loading bool
	failed  bool
	empty   bool
	count   string
	icon    string
	theme   theme.Theme
	palette theme.Palette

	// epoch changes whenever the cards are replaced.
	epoch int
}

func newGridView() *gridView {
	return &gridView{
		theme:   theme.Default,
		palette: theme.PaletteFor(theme.Default),
		icon:    theme.Default.Icon(),
	}
}

func (v *gridView) Clear() {
	v.cards = nil
	v.epoch++
}

func (v *gridView) AppendCard(card grid.Card) {
	v.cards = append(v.cards, card)
}

func (v *gridView) SetIndicator(ind grid.Indicator, visible bool) {
	switch ind {
	case grid.IndicatorLoading:
		v.loading = visible
	case grid.IndicatorError:
		v.failed = visible
	case grid.IndicatorNoResults:
		v.empty = visible
	}
}

func (v *gridView) SetCount(label string) {
	v.count = label
}

func (v *gridView) SetThemeIcon(icon string) {
	v.icon = icon
}

// ApplyTheme switches the palette.
func (v *gridView) ApplyTheme(t theme.Theme) {
	v.theme = t
	v.palette = theme.PaletteFor(t)
}

// card returns the i-th card, if any.
func (v *gridView) card(i int) (grid.Card, bool) {
	if i < 0 || i >= len(v.cards) {
		return grid.Card{}, false
	}
	return v.cards[i], true
}
