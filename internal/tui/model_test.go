package tui

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/carlogos/internal/config"
	"github.com/jmylchreest/carlogos/internal/grid"
	"github.com/jmylchreest/carlogos/internal/loader"
	"github.com/jmylchreest/carlogos/internal/model"
	"github.com/jmylchreest/carlogos/internal/theme"
)

// TestMain initializes the global zone manager for all tests in this package.
func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

type fakeFetcher struct {
	logos []model.Logo
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context) (*loader.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &loader.Result{Logos: f.logos}, nil
}

type memPrefs map[string]string

func (p memPrefs) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

func (p memPrefs) Set(key, value string) error {
	p[key] = value
	return nil
}

type recorder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (r *recorder) Open(url string) error { return r.record(url) }
func (r *recorder) Copy(text string) error { return r.record(text) }

func (r *recorder) record(s string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
	return r.err
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func testLogos() []model.Logo {
	return []model.Logo{
		{Name: "Toyota", Slug: "toyota", Image: model.Image{Optimized: "https://x/toyota.png", Source: "https://toyota.com"}},
		{Name: "Ford", Slug: "ford", Image: model.Image{Thumb: "https://x/ford.png", Source: "https://ford.com"}},
		{Name: "Opel", Slug: "opel"},
	}
}

type harness struct {
	m       Model
	prefs   memPrefs
	opener  *recorder
	clip    *recorder
	fetcher *fakeFetcher
}

func newHarness(t *testing.T, f *fakeFetcher, tweak func(*config.Config)) *harness {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.TUI.Animate = false
	cfg.TUI.Preview = false
	cfg.Search.Debounce = config.Duration(20 * time.Millisecond)
	if tweak != nil {
		tweak(cfg)
	}

	h := &harness{prefs: memPrefs{}, opener: &recorder{}, clip: &recorder{}, fetcher: f}
	h.m = New(Options{
		Config:      cfg,
		Fetcher:     f,
		Preferences: h.prefs,
		Opener:      h.opener,
		Clipboard:   h.clip,
	})
	t.Cleanup(h.m.Close)

	// Init's commands block on the loop; only its side effects are wanted.
	_ = h.m.Init()
	h.send(tea.WindowSizeMsg{Width: 60, Height: 20})
	return h
}

func (h *harness) load() {
	res, err := h.fetcher.Fetch(context.Background())
	h.send(loadedMsg{res: res, err: err})
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) key(k tea.KeyMsg) tea.Cmd {
	return h.send(k)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and any batched commands, returning their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func TestModel_LoadingThenGrid(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: testLogos()}, nil)

	assert.True(t, h.m.view.loading)
	assert.Contains(t, h.m.View(), "Loading logos")

	h.load()
	assert.False(t, h.m.view.loading)
	assert.Len(t, h.m.view.cards, 3)

	out := h.m.View()
	assert.Contains(t, out, "Showing all 3 logos")
	assert.Contains(t, out, "Toyota")
	assert.Contains(t, out, "Ford")
	assert.Contains(t, out, theme.Dark.Icon())
}

func TestModel_FetchError(t *testing.T) {
	h := newHarness(t, &fakeFetcher{err: &loader.FetchError{Location: "https://x", Status: 500}}, nil)
	h.load()

	assert.True(t, h.m.view.failed)
	assert.False(t, h.m.view.loading)
	assert.Empty(t, h.m.view.cards)
	assert.Empty(t, h.m.view.count)
	assert.Contains(t, h.m.View(), "Failed to load logos")
}

func TestModel_SearchEnterApplies(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: testLogos()}, nil)
	h.load()

	h.key(tea.KeyMsg{Type: tea.KeyCtrlK})
	assert.Equal(t, ModeSearch, h.m.mode)

	h.key(runes("t"))
	h.key(runes("o"))
	assert.True(t, h.m.ctrl.SearchPending())

	h.key(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeGrid, h.m.mode)
	assert.False(t, h.m.ctrl.SearchPending())
	require.Len(t, h.m.view.cards, 1)
	assert.Equal(t, "Toyota", h.m.view.cards[0].Name)
	assert.Contains(t, h.m.View(), "Found 1 of 3 logos")
}

func TestModel_SearchDebouncedDispatch(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: testLogos()}, nil)
	h.load()

	h.key(runes("/"))
	h.key(runes("f"))
	h.key(runes("o"))

	done := make(chan tea.Msg, 1)
	go func() { done <- h.m.waitForDispatch() }()

	select {
	case msg := <-done:
		h.send(msg)
	case <-time.After(time.Second):
		t.Fatal("debounced search was not dispatched")
	}

	require.Len(t, h.m.view.cards, 1)
	assert.Equal(t, "Ford", h.m.view.cards[0].Name)
	assert.Equal(t, "fo", h.m.ctrl.Term())
}

func TestModel_SearchEscClears(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: testLogos()}, nil)
	h.load()

	h.key(tea.KeyMsg{Type: tea.KeyCtrlK})
	h.key(runes("opel"))
	h.key(tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, h.m.view.cards, 1)

	h.key(tea.KeyMsg{Type: tea.KeyCtrlK})
	h.key(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeGrid, h.m.mode)
	assert.Equal(t, "", h.m.search.Value())
	assert.Len(t, h.m.view.cards, 3)
	assert.Equal(t, "Showing all 3 logos", h.m.view.count)
}

func TestModel_NoResults(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: testLogos()}, nil)
	h.load()

	h.key(tea.KeyMsg{Type: tea.KeyCtrlK})
	h.key(runes("zzz"))
	h.key(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, h.m.view.empty)
	assert.Contains(t, h.m.View(), "No logos found")
}

func TestModel_Navigation(t *testing.T) {
	logos := append(testLogos(), model.Logo{Name: "Kia", Slug: "kia"}, model.Logo{Name: "Seat", Slug: "seat"})
	h := newHarness(t, &fakeFetcher{logos: logos}, nil)
	h.load()
	require.Equal(t, 3, h.m.columns())

	h.key(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, h.m.cursor)
	h.key(runes("j"))
	assert.Equal(t, 4, h.m.cursor)
	h.key(runes("j"))
	assert.Equal(t, 4, h.m.cursor)
	h.key(runes("k"))
	assert.Equal(t, 1, h.m.cursor)
	h.key(runes("G"))
	assert.Equal(t, 4, h.m.cursor)
	h.key(runes("g"))
	assert.Equal(t, 0, h.m.cursor)
	h.key(runes("h"))
	assert.Equal(t, 0, h.m.cursor)
}

func TestModel_NewResultsResetCursor(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: testLogos()}, nil)
	h.load()
	h.key(runes("l"))
	h.key(runes("l"))
	require.Equal(t, 2, h.m.cursor)

	h.m.ctrl.Search("o")
	h.send(nil)
	assert.Equal(t, 0, h.m.cursor)
}

func TestModel_OpenSource(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: testLogos()}, nil)
	h.load()

	msgs := collect(h.key(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, []string{"https://toyota.com"}, h.opener.snapshot())
	require.NotEmpty(t, msgs)
	status, ok := msgs[0].(statusMsg)
	require.True(t, ok)
	assert.False(t, status.isErr)

	// A logo without a source opens nothing
	h.key(runes("G"))
	assert.Nil(t, collect(h.key(tea.KeyMsg{Type: tea.KeyEnter})))
	assert.Len(t, h.opener.snapshot(), 1)
}

func TestModel_OpenFailureStatus(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: testLogos()}, nil)
	h.opener.err = errors.New("no browser")
	h.load()

	msgs := collect(h.key(tea.KeyMsg{Type: tea.KeyEnter}))
	require.Len(t, msgs, 1)
	status := msgs[0].(statusMsg)
	assert.True(t, status.isErr)
	assert.Contains(t, status.text, "no browser")

	h.send(status)
	assert.Contains(t, h.m.View(), "Open failed")
}

func TestModel_CopySource(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: testLogos()}, nil)
	h.load()

	collect(h.key(runes("c")))
	assert.Equal(t, []string{"https://toyota.com"}, h.clip.snapshot())

	collect(h.key(runes("C")))
	calls := h.clip.snapshot()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1], `"slug": "toyota"`)
	assert.NotContains(t, calls[1], `"slug": "ford"`)

	collect(h.key(tea.KeyMsg{Type: tea.KeyRight}))
	collect(h.key(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c"), Alt: true}))
	calls = h.clip.snapshot()
	require.Len(t, calls, 3)
	assert.Contains(t, calls[2], "slug: ford")
	assert.NotContains(t, calls[2], "toyota")
}

func TestModel_HideKeybindBar(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: testLogos()}, func(c *config.Config) {
		c.TUI.ShowHelp = false
	})
	h.load()
	assert.NotContains(t, h.m.View(), "quit")

	shown := newHarness(t, &fakeFetcher{logos: testLogos()}, nil)
	shown.load()
	assert.Contains(t, shown.m.View(), "quit")
}

func TestModel_ToggleTheme(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: testLogos()}, nil)
	h.load()

	h.key(runes("t"))
	assert.Equal(t, theme.Light, h.m.view.theme)
	assert.Equal(t, theme.Light.Icon(), h.m.view.icon)
	assert.Equal(t, "light", h.prefs[theme.PreferenceKey])
	assert.Equal(t, theme.PaletteFor(theme.Light), h.m.view.palette)

	h.key(runes("t"))
	assert.Equal(t, theme.Dark, h.m.view.theme)
	assert.Equal(t, "dark", h.prefs[theme.PreferenceKey])
}

func TestModel_ThemeReloadFromDispatch(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: testLogos()}, nil)
	h.load()

	h.prefs[theme.PreferenceKey] = "light"
	go h.m.Dispatch(func() { h.m.Controller().ReloadTheme() })

	msg := h.m.waitForDispatch()
	h.send(msg)
	assert.Equal(t, theme.Light, h.m.view.theme)
}

func TestModel_HelpAndDetail(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: testLogos()}, nil)
	h.load()

	h.key(runes("?"))
	assert.Equal(t, ModeHelp, h.m.mode)
	assert.Contains(t, h.m.View(), "Keyboard Shortcuts")
	h.key(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeGrid, h.m.mode)

	h.key(runes("i"))
	assert.Equal(t, ModeDetail, h.m.mode)
	out := h.m.View()
	assert.Contains(t, out, "Logo Detail")
	assert.Contains(t, out, "toyota.com")
	h.key(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeGrid, h.m.mode)
}

func TestModel_Reload(t *testing.T) {
	f := &fakeFetcher{err: errors.New("offline")}
	h := newHarness(t, f, nil)
	h.load()
	require.True(t, h.m.view.failed)

	f.err = nil
	f.logos = testLogos()
	cmd := h.key(runes("r"))
	assert.True(t, h.m.view.loading)
	assert.False(t, h.m.view.failed)

	for _, msg := range collect(cmd) {
		h.send(msg)
	}
	assert.False(t, h.m.view.loading)
	assert.Len(t, h.m.view.cards, 3)
}

func TestModel_Animation(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: testLogos()}, func(c *config.Config) {
		c.TUI.Animate = true
	})
	h.load()

	require.True(t, h.m.animating)
	cards := h.m.view.cards
	assert.True(t, h.m.revealed(cards[0]))
	assert.False(t, h.m.revealed(cards[2]))

	h.send(animTickMsg{epoch: h.m.view.epoch, at: h.m.animStart.Add(grid.StaggerDelay(1))})
	assert.True(t, h.m.revealed(cards[1]))
	assert.False(t, h.m.revealed(cards[2]))
	assert.True(t, h.m.animating)

	h.send(animTickMsg{epoch: h.m.view.epoch, at: h.m.animStart.Add(grid.StaggerDelay(2))})
	assert.False(t, h.m.animating)
	assert.True(t, h.m.revealed(cards[2]))

	// Ticks from an earlier render are ignored
	h.send(animTickMsg{epoch: h.m.view.epoch - 1, at: time.Now()})
	assert.False(t, h.m.animating)
}

func TestModel_PreviewPlaceholder(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: []model.Logo{{Name: "Opel", Slug: "opel"}}}, func(c *config.Config) {
		c.TUI.Preview = true
		c.TUI.PreviewWidth = 8
	})
	h.load()

	cmd := h.m.loadPreview()
	require.NotNil(t, cmd)
	msg := cmd().(previewMsg)
	assert.True(t, msg.res.Placeholder)

	h.send(msg)
	require.NotNil(t, h.m.previewRes)
	assert.Contains(t, h.m.View(), "O")
	assert.Nil(t, h.m.loadPreview())
}

func TestModel_MouseClickOpensCard(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: testLogos()}, nil)
	h.load()

	var z *zone.ZoneInfo
	for retries := 0; retries < 10; retries++ {
		_ = h.m.View()
		z = zone.Get(cardZoneID(1))
		if z != nil && !z.IsZero() {
			break
		}
		// Zone registration is asynchronous in bubblezone.
		time.Sleep(time.Millisecond)
	}
	require.NotNil(t, z)
	require.False(t, z.IsZero())

	cmd := h.send(tea.MouseMsg{
		X:      z.StartX + (z.EndX-z.StartX)/2,
		Y:      z.StartY + 1,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionRelease,
	})
	assert.Equal(t, 1, h.m.cursor)
	collect(cmd)
	assert.Equal(t, []string{"https://ford.com"}, h.opener.snapshot())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Toyota", truncate("Toyota", 10))
	assert.Equal(t, "Mercedes-…", truncate("Mercedes-Benz", 10))
	assert.Equal(t, "…", truncate("Mercedes", 1))
}

func TestBuildKeybindBar_FitsWidth(t *testing.T) {
	h := newHarness(t, &fakeFetcher{logos: testLogos()}, nil)
	bar := h.m.buildKeybindBar(20, "grid")
	assert.LessOrEqual(t, lipgloss.Width(bar), 20)
	assert.Contains(t, bar, "quit")
}
