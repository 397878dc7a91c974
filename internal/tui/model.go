// Package tui provides the BubbleTea-based terminal logo browser.
package tui

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/carlogos/internal/app"
	"github.com/jmylchreest/carlogos/internal/config"
	"github.com/jmylchreest/carlogos/internal/grid"
	"github.com/jmylchreest/carlogos/internal/loader"
	"github.com/jmylchreest/carlogos/internal/preview"
	"github.com/jmylchreest/carlogos/internal/theme"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeGrid Mode = iota
	ModeSearch
	ModeDetail
	ModeHelp
)

const (
	statusTimeout = 3 * time.Second
	loopBuffer    = 64

	zoneThemeToggle = "theme-toggle"
)

// Copier writes text to the clipboard.
type Copier interface {
	Copy(text string) error
}

// Options configures the Model.
type Options struct {
	Config      *config.Config
	Fetcher     app.Fetcher
	Preferences theme.Preferences
	Opener      grid.Opener
	Clipboard   Copier
	Logger      *slog.Logger
}

// Model is the main TUI model.
type Model struct {
	cfg       *config.Config
	ctrl      *app.Controller
	view      *gridView
	loop      chan func()
	done      chan struct{}
	closeOnce *sync.Once
	clipboard Copier
	previews  map[theme.Theme]*preview.Renderer
	logger    *slog.Logger

	mode Mode

	// Components
	search   textinput.Model
	viewport viewport.Model
	help     help.Model
	keys     KeyMap

	// State
	cursor    int
	topRow    int
	width     int
	height    int
	ready     bool
	lastInput string

	// Render tracking: what the model last saw of the view
	seenEpoch int
	seenTheme theme.Theme

	// Entrance animation
	animating bool
	animStart time.Time
	animNow   time.Time

	// Preview of the selected card
	previewKey previewKey
	previewRes *preview.Result

	statusMsg string
	statusErr bool
}

type previewKey struct {
	epoch int
	index int
	theme theme.Theme
}

// New creates the TUI model and its controller.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	view := newGridView()
	loop := make(chan func(), loopBuffer)
	done := make(chan struct{})
	dispatch := func(fn func()) {
		select {
		case loop <- fn:
		case <-done:
		}
	}

	defaultTheme, err := theme.Parse(cfg.Theme.Default)
	if err != nil {
		defaultTheme = theme.Default
	}

	ctrl := app.New(app.Options{
		View:         view,
		Fetcher:      opts.Fetcher,
		Opener:       opts.Opener,
		Preferences:  opts.Preferences,
		DefaultTheme: defaultTheme,
		Debounce:     cfg.Search.Debounce.Duration(),
		Dispatch:     dispatch,
		Logger:       logger,
	})

	search := textinput.New()
	search.Placeholder = "Search brands..."
	search.Prompt = "🔍 "
	search.CharLimit = 100

	h := help.New()
	h.ShowAll = true

	return Model{
		cfg:       cfg,
		ctrl:      ctrl,
		view:      view,
		loop:      loop,
		done:      done,
		closeOnce: &sync.Once{},
		clipboard: opts.Clipboard,
		previews:  make(map[theme.Theme]*preview.Renderer),
		logger:    logger,
		mode:      ModeGrid,
		search:    search,
		help:      h,
		keys:      DefaultKeyMap(),
		seenEpoch: view.epoch,
	}
}

// Controller returns the controller driving the grid.
func (m Model) Controller() *app.Controller {
	return m.ctrl
}

// Dispatch queues fn to run on the event loop. After Close it drops fn.
func (m Model) Dispatch(fn func()) {
	select {
	case m.loop <- fn:
	case <-m.done:
	}
}

// Close stops the controller and releases goroutines blocked in Dispatch.
func (m Model) Close() {
	m.closeOnce.Do(func() {
		m.ctrl.Stop()
		close(m.done)
	})
}

// Init initialises the theme, starts the dataset fetch and begins draining
// work dispatched onto the loop.
func (m Model) Init() tea.Cmd {
	m.ctrl.Bootstrap()
	return tea.Batch(
		m.fetchLogos(),
		m.waitForDispatch,
	)
}

type loadedMsg struct {
	res *loader.Result
	err error
}

// fetchLogos runs the fetch off the loop; the result is applied in Update.
func (m Model) fetchLogos() tea.Cmd {
	ctrl := m.ctrl
	timeout := m.cfg.Source.Timeout.Duration()
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		res, err := ctrl.Fetch(ctx)
		return loadedMsg{res: res, err: err}
	}
}

// waitForDispatch blocks until work is dispatched onto the loop.
func (m Model) waitForDispatch() tea.Msg {
	select {
	case fn := <-m.loop:
		return dispatchMsg{fn: fn}
	case <-m.done:
		return nil
	}
}

type dispatchMsg struct {
	fn func()
}

type animTickMsg struct {
	epoch int
	at    time.Time
}

type previewMsg struct {
	key previewKey
	res preview.Result
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next, follow := next.afterUpdate()
	return next, tea.Batch(cmd, follow)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.viewport = viewport.New(msg.Width, max(1, msg.Height-3))
		m.help.Width = msg.Width
		m.search.Width = max(10, msg.Width-20)
		m = m.scrollToCursor()
		if m.mode == ModeDetail {
			m.viewport.SetContent(m.renderDetail())
		}
		return m, nil

	case loadedMsg:
		m.ctrl.FinishLoad(msg.res, msg.err)
		return m, nil

	case dispatchMsg:
		msg.fn()
		return m, m.waitForDispatch

	case animTickMsg:
		if !m.animating || msg.epoch != m.view.epoch {
			return m, nil
		}
		m.animNow = msg.at
		if m.animNow.Sub(m.animStart) >= m.lastDelay() {
			m.animating = false
			return m, nil
		}
		return m, m.animTick()

	case previewMsg:
		if msg.key == m.currentPreviewKey() {
			res := msg.res
			m.previewKey = msg.key
			m.previewRes = &res
			if m.mode == ModeDetail {
				m.viewport.SetContent(m.renderDetail())
			}
		}
		return m, nil

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(statusTimeout, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	switch m.mode {
	case ModeSearch:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	case ModeDetail:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// afterUpdate reacts to changes the controller made to the view: a new card
// set restarts the animation and resets the selection, and a new card set or
// theme refreshes the preview.
func (m Model) afterUpdate() (Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.view.epoch != m.seenEpoch {
		m.seenEpoch = m.view.epoch
		m.cursor = 0
		m.topRow = 0
		m.previewRes = nil
		if m.mode == ModeDetail {
			m.mode = ModeGrid
		}
		if m.cfg.TUI.Animate && len(m.view.cards) > 1 {
			now := time.Now()
			m.animating = true
			m.animStart = now
			m.animNow = now
			cmds = append(cmds, m.animTick())
		} else {
			m.animating = false
		}
		cmds = append(cmds, m.loadPreview())
	}

	if m.view.theme != m.seenTheme {
		m.seenTheme = m.view.theme
		m.previewRes = nil
		cmds = append(cmds, m.loadPreview())
	}

	return m, tea.Batch(cmds...)
}

func (m Model) animTick() tea.Cmd {
	epoch := m.view.epoch
	return tea.Tick(grid.StaggerStep, func(t time.Time) tea.Msg {
		return animTickMsg{epoch: epoch, at: t}
	})
}

// lastDelay is the entrance delay of the last card.
func (m Model) lastDelay() time.Duration {
	if n := len(m.view.cards); n > 0 {
		return m.view.cards[n-1].Delay
	}
	return 0
}

// revealed reports whether the card's entrance delay has passed.
func (m Model) revealed(c grid.Card) bool {
	return !m.animating || m.animNow.Sub(m.animStart) >= c.Delay
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// ctrl+c always quits; q only outside text entry
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.mode == ModeSearch {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeGrid
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	case key.Matches(msg, m.keys.Search):
		return m.enterSearch()
	case key.Matches(msg, m.keys.ToggleTheme):
		m.ctrl.ToggleTheme()
		return m, nil
	}

	switch m.mode {
	case ModeGrid:
		return m.handleGridKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeGrid
		}
		return m, nil
	}

	return m, nil
}

func (m Model) enterSearch() (Model, tea.Cmd) {
	m.mode = ModeSearch
	m.search.Focus()
	return m, textinput.Blink
}

// handleGridKey handles keys in grid mode.
func (m Model) handleGridKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	cols := m.columns()

	switch {
	case key.Matches(msg, m.keys.Up):
		return m.moveCursor(-cols)
	case key.Matches(msg, m.keys.Down):
		return m.moveCursor(cols)
	case key.Matches(msg, m.keys.Left):
		return m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		return m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		return m.moveCursor(-cols * m.visibleRows())
	case key.Matches(msg, m.keys.PageDown):
		return m.moveCursor(cols * m.visibleRows())
	case key.Matches(msg, m.keys.Home):
		return m.moveCursor(-len(m.view.cards))
	case key.Matches(msg, m.keys.End):
		return m.moveCursor(len(m.view.cards))

	case key.Matches(msg, m.keys.Open):
		if c, ok := m.view.card(m.cursor); ok {
			return m, activateCard(c)
		}
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		if _, ok := m.view.card(m.cursor); ok {
			m.mode = ModeDetail
			m.viewport.SetContent(m.renderDetail())
			m.viewport.GotoTop()
			return m, m.loadPreview()
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if c, ok := m.view.card(m.cursor); ok && c.Logo.HasSource() {
			return m, m.copyToClipboard(c.Logo.Image.Source)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyJSON):
		c, ok := m.view.card(m.cursor)
		if !ok {
			return m, nil
		}
		data, err := json.MarshalIndent(c.Logo, "", "  ")
		if err != nil {
			return m, statusCmd("Failed to marshal JSON: "+err.Error(), true)
		}
		return m, m.copyToClipboard(string(data))

	case key.Matches(msg, m.keys.CopyYAML):
		c, ok := m.view.card(m.cursor)
		if !ok {
			return m, nil
		}
		data, err := yaml.Marshal(c.Logo)
		if err != nil {
			return m, statusCmd("Failed to marshal YAML: "+err.Error(), true)
		}
		return m, m.copyToClipboard(string(data))

	case key.Matches(msg, m.keys.Reload):
		if m.ctrl.Loading() {
			return m, nil
		}
		m.ctrl.BeginLoad()
		return m, m.fetchLogos()

	case key.Matches(msg, m.keys.Back):
		if m.ctrl.Term() != "" {
			m.search.SetValue("")
			m.lastInput = ""
			m.ctrl.Search("")
		}
		return m, nil
	}

	return m, nil
}

// handleDetailKey handles keys in detail mode.
func (m Model) handleDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Detail):
		m.mode = ModeGrid
		return m, nil
	case key.Matches(msg, m.keys.Open):
		if c, ok := m.view.card(m.cursor); ok {
			return m, activateCard(c)
		}
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		if c, ok := m.view.card(m.cursor); ok && c.Logo.HasSource() {
			return m, m.copyToClipboard(c.Logo.Image.Source)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleSearchKey handles keys while the search field has focus.
func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Esc clears the search and returns to the grid
		m.mode = ModeGrid
		m.search.Blur()
		m.search.SetValue("")
		m.lastInput = ""
		m.ctrl.Search("")
		return m, nil

	case tea.KeyEnter:
		// Enter applies the search now and focuses the grid
		m.mode = ModeGrid
		m.search.Blur()
		m.ctrl.FlushSearch()
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		var delta int
		if msg.Type == tea.KeyUp {
			delta = -m.columns()
		} else {
			delta = m.columns()
		}
		return m.moveCursor(delta)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	if v := m.search.Value(); v != m.lastInput {
		m.lastInput = v
		m.ctrl.SearchDebounced(v)
	}

	return m, cmd
}

// handleMouse selects and opens clicked cards and toggles the theme.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if !m.cfg.TUI.Mouse || m.mode == ModeHelp {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Action == tea.MouseActionPress && m.mode == ModeGrid {
			return m.moveCursor(-m.columns())
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if msg.Action == tea.MouseActionPress && m.mode == ModeGrid {
			return m.moveCursor(m.columns())
		}
		return m, nil
	}

	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	if z := zone.Get(zoneThemeToggle); z != nil && z.InBounds(msg) {
		m.ctrl.ToggleTheme()
		return m, nil
	}

	if m.mode != ModeGrid && m.mode != ModeSearch {
		return m, nil
	}

	first, last := m.visibleRange()
	for i := first; i < last; i++ {
		if z := zone.Get(cardZoneID(i)); z != nil && z.InBounds(msg) {
			if m.mode == ModeSearch {
				m.mode = ModeGrid
				m.search.Blur()
			}
			card := m.view.cards[i]
			next, cmd := m.moveCursor(i - m.cursor)
			return next, tea.Batch(cmd, activateCard(card))
		}
	}

	return m, nil
}

// moveCursor moves the selection by delta cards, clamped to the grid.
func (m Model) moveCursor(delta int) (Model, tea.Cmd) {
	n := len(m.view.cards)
	if n == 0 {
		return m, nil
	}
	next := min(max(m.cursor+delta, 0), n-1)
	if next == m.cursor {
		return m, nil
	}
	m.cursor = next
	m = m.scrollToCursor()
	return m, m.loadPreview()
}

// scrollToCursor scrolls so the selected row is on screen.
func (m Model) scrollToCursor() Model {
	if len(m.view.cards) == 0 {
		m.cursor = 0
		m.topRow = 0
		return m
	}
	m.cursor = min(m.cursor, len(m.view.cards)-1)
	row := m.cursor / m.columns()
	rows := m.visibleRows()
	switch {
	case row < m.topRow:
		m.topRow = row
	case row >= m.topRow+rows:
		m.topRow = row - rows + 1
	}
	return m
}

func (m Model) currentPreviewKey() previewKey {
	return previewKey{epoch: m.view.epoch, index: m.cursor, theme: m.view.theme}
}

// loadPreview renders the selected card's image off the loop.
func (m Model) loadPreview() tea.Cmd {
	if !m.cfg.TUI.Preview && m.mode != ModeDetail {
		return nil
	}
	c, ok := m.view.card(m.cursor)
	if !ok {
		return nil
	}
	k := m.currentPreviewKey()
	if m.previewRes != nil && m.previewKey == k {
		return nil
	}
	r := m.previewRenderer()
	timeout := m.cfg.Source.Timeout.Duration()
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return previewMsg{key: k, res: r.Render(ctx, c)}
	}
}

// previewRenderer returns the renderer for the active theme.
func (m Model) previewRenderer() *preview.Renderer {
	t := m.view.theme
	if r, ok := m.previews[t]; ok {
		return r
	}
	r := preview.New(preview.Options{
		UserAgent:  m.cfg.Source.UserAgent,
		Width:      m.cfg.TUI.PreviewWidth,
		Background: string(m.view.palette.Surface),
		Logger:     m.logger,
	})
	m.previews[t] = r
	return r
}

// activateCard opens the card's source off the loop.
func activateCard(c grid.Card) tea.Cmd {
	if !c.Logo.HasSource() {
		return nil
	}
	return func() tea.Msg {
		if err := c.Activate(); err != nil {
			return statusMsg{text: "Open failed: " + err.Error(), isErr: true}
		}
		return statusMsg{text: "Opened " + c.Logo.SourceHost()}
	}
}

// copyToClipboard copies text to the system clipboard.
func (m Model) copyToClipboard(text string) tea.Cmd {
	clip := m.clipboard
	return func() tea.Msg {
		if clip == nil {
			return statusMsg{text: "Copy failed: no clipboard", isErr: true}
		}
		if err := clip.Copy(text); err != nil {
			return statusMsg{text: "Copy failed: " + err.Error(), isErr: true}
		}
		return statusMsg{text: "Copied to clipboard"}
	}
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}
