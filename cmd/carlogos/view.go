package main

import (
	"github.com/jmylchreest/carlogos/internal/grid"
)

// listView is the grid.View used by non-interactive commands. It only
// remembers what the controller drew.
type listView struct {
	cards     []grid.Card
	count     string
	noResults bool
}

func (v *listView) Clear()                    { v.cards = nil }
func (v *listView) AppendCard(card grid.Card) { v.cards = append(v.cards, card) }
func (v *listView) SetCount(label string)     { v.count = label }
func (v *listView) SetThemeIcon(string)       {}

func (v *listView) SetIndicator(ind grid.Indicator, visible bool) {
	if ind == grid.IndicatorNoResults {
		v.noResults = visible
	}
}
