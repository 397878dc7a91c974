package theme

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPrefs struct {
	values map[string]string
	setErr error
	sets   int
}

func newMemPrefs() *memPrefs {
	return &memPrefs{values: make(map[string]string)}
}

func (p *memPrefs) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p *memPrefs) Set(key, value string) error {
	p.sets++
	if p.setErr != nil {
		return p.setErr
	}
	p.values[key] = value
	return nil
}

type recordingApplier struct {
	applied []Theme
}

func (a *recordingApplier) ApplyTheme(t Theme) {
	a.applied = append(a.applied, t)
}

func TestParse(t *testing.T) {
	th, err := Parse(" Light ")
	require.NoError(t, err)
	assert.Equal(t, Light, th)

	th, err = Parse("dark")
	require.NoError(t, err)
	assert.Equal(t, Dark, th)

	_, err = Parse("sepia")
	assert.Error(t, err)
}

func TestTheme_ToggleIsInvolution(t *testing.T) {
	for _, th := range []Theme{Dark, Light} {
		assert.Equal(t, th, th.Toggle().Toggle())
		assert.NotEqual(t, th, th.Toggle())
	}
}

func TestTheme_Icon(t *testing.T) {
	assert.Equal(t, "🌙", Dark.Icon())
	assert.Equal(t, "☀️", Light.Icon())
}

func TestStore_InitDefaultsToDark(t *testing.T) {
	applier := &recordingApplier{}
	s := NewStore(newMemPrefs(), applier, "", nil)

	assert.Equal(t, Dark, s.Init())
	assert.Equal(t, []Theme{Dark}, applier.applied)
}

func TestStore_InitReadsStoredPreference(t *testing.T) {
	prefs := newMemPrefs()
	prefs.values[PreferenceKey] = "light"
	applier := &recordingApplier{}

	s := NewStore(prefs, applier, Dark, nil)
	assert.Equal(t, Light, s.Init())
	assert.Equal(t, []Theme{Light}, applier.applied)
	assert.Equal(t, 0, prefs.sets, "init must not write")
}

func TestStore_InitIgnoresGarbage(t *testing.T) {
	prefs := newMemPrefs()
	prefs.values[PreferenceKey] = "neon"

	s := NewStore(prefs, nil, "", nil)
	assert.Equal(t, Dark, s.Init())
}

func TestStore_ToggleAppliesAndPersists(t *testing.T) {
	prefs := newMemPrefs()
	applier := &recordingApplier{}
	s := NewStore(prefs, applier, "", nil)
	s.Init()

	assert.Equal(t, Light, s.Toggle())
	assert.Equal(t, "light", prefs.values[PreferenceKey])

	assert.Equal(t, Dark, s.Toggle())
	assert.Equal(t, "dark", prefs.values[PreferenceKey])

	assert.Equal(t, []Theme{Dark, Light, Dark}, applier.applied)
}

func TestStore_ToggleSurvivesWriteFailure(t *testing.T) {
	prefs := newMemPrefs()
	prefs.setErr = errors.New("read-only file system")
	s := NewStore(prefs, nil, "", nil)
	s.Init()

	assert.Equal(t, Light, s.Toggle())
	assert.Equal(t, Light, s.Current())
}

func TestStore_NilPreferences(t *testing.T) {
	s := NewStore(nil, nil, Light, nil)
	assert.Equal(t, Light, s.Init())
	assert.Equal(t, Dark, s.Toggle())
}

func TestStore_Set(t *testing.T) {
	prefs := newMemPrefs()
	s := NewStore(prefs, nil, "", nil)
	s.Init()

	s.Set(Light)
	assert.Equal(t, Light, s.Current())
	assert.Equal(t, "light", prefs.values[PreferenceKey])
}

func TestStore_Reload(t *testing.T) {
	prefs := newMemPrefs()
	applier := &recordingApplier{}
	s := NewStore(prefs, applier, "", nil)
	s.Init()

	th, changed := s.Reload()
	assert.Equal(t, Dark, th)
	assert.False(t, changed)

	// Another process stored a different preference.
	prefs.values[PreferenceKey] = "light"
	th, changed = s.Reload()
	assert.Equal(t, Light, th)
	assert.True(t, changed)
	assert.Equal(t, []Theme{Dark, Light}, applier.applied)
}

func TestPaletteFor(t *testing.T) {
	assert.NotEqual(t, PaletteFor(Dark), PaletteFor(Light))
	assert.Equal(t, PaletteFor(Dark), PaletteFor(Theme("unknown")))
}
