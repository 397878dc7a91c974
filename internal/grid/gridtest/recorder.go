// Package gridtest provides a recording grid.View for tests.
package gridtest

import (
	"sync"

	"github.com/jmylchreest/carlogos/internal/grid"
)

// Recorder is a grid.View that remembers what was drawn.
type Recorder struct {
	mu         sync.Mutex
	cards      []grid.Card
	indicators map[grid.Indicator]bool
	count      string
	countSets  int
	icon       string
	renders    int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{indicators: make(map[grid.Indicator]bool)}
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards = nil
	r.renders++
}

func (r *Recorder) AppendCard(card grid.Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards = append(r.cards, card)
}

func (r *Recorder) SetIndicator(ind grid.Indicator, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indicators[ind] = visible
}

func (r *Recorder) SetCount(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count = label
	r.countSets++
}

func (r *Recorder) SetThemeIcon(icon string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.icon = icon
}

// Cards returns a copy of the current cards.
func (r *Recorder) Cards() []grid.Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]grid.Card(nil), r.cards...)
}

// Names returns the names of the current cards.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.cards))
	for i, c := range r.cards {
		names[i] = c.Name
	}
	return names
}

// Visible reports whether ind is shown.
func (r *Recorder) Visible(ind grid.Indicator) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.indicators[ind]
}

// Count returns the last count label and how many times it was set.
func (r *Recorder) Count() (string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count, r.countSets
}

// Icon returns the theme icon.
func (r *Recorder) Icon() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.icon
}

// Renders returns how many times the view was cleared.
func (r *Recorder) Renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}
