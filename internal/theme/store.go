package theme

import (
	"log/slog"
	"sync"
)

// Preferences is the durable key/value storage the preference lives in.
type Preferences interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Applier applies a theme to whatever is being displayed, including the
// toggle icon.
type Applier interface {
	ApplyTheme(t Theme)
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(t Theme)

// ApplyTheme calls f(t).
func (f ApplierFunc) ApplyTheme(t Theme) { f(t) }

// Store owns the active theme. Storage problems never surface as errors:
// an absent or unreadable preference is the fallback theme, and a failed
// write still flips the active theme.
type Store struct {
	mu       sync.Mutex
	prefs    Preferences
	applier  Applier
	fallback Theme
	current  Theme
	logger   *slog.Logger
}

// NewStore creates a theme Store. fallback is used when no preference is
// stored; an empty fallback means Default.
func NewStore(prefs Preferences, applier Applier, fallback Theme, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if fallback == "" {
		fallback = Default
	}
	return &Store{
		prefs:    prefs,
		applier:  applier,
		fallback: fallback,
		current:  fallback,
		logger:   logger,
	}
}

// Init reads the persisted preference and applies it.
func (s *Store) Init() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = s.stored()
	s.apply()
	return s.current
}

// Toggle flips the active theme, applies it and persists it.
func (s *Store) Toggle() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = s.current.Toggle()
	s.apply()
	s.persist()
	return s.current
}

// Set applies and persists t.
func (s *Store) Set(t Theme) Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = t
	s.apply()
	s.persist()
	return s.current
}

// Reload re-reads the persisted preference and applies it if it differs from
// the active theme. Returns the active theme and whether it changed.
func (s *Store) Reload() (Theme, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.stored()
	if stored == s.current {
		return s.current, false
	}
	s.current = stored
	s.apply()
	return s.current, true
}

// Current returns the active theme.
func (s *Store) Current() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Store) stored() Theme {
	if s.prefs == nil {
		return s.fallback
	}
	v, ok := s.prefs.Get(PreferenceKey)
	if !ok {
		return s.fallback
	}
	t, err := Parse(v)
	if err != nil {
		s.logger.Debug("ignoring stored theme", "value", v, "error", err)
		return s.fallback
	}
	return t
}

func (s *Store) apply() {
	if s.applier != nil {
		s.applier.ApplyTheme(s.current)
	}
}

func (s *Store) persist() {
	if s.prefs == nil {
		return
	}
	if err := s.prefs.Set(PreferenceKey, s.current.String()); err != nil {
		s.logger.Warn("failed to persist theme", "theme", s.current, "error", err)
	}
}
