// Package app owns the logo collection and drives a grid.View from it.
//
// The Controller is not safe for concurrent use. Every method that changes
// state runs on the host's event loop; work that finishes elsewhere (the
// debounced search timer) is handed back through the Dispatcher.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmylchreest/carlogos/internal/core"
	"github.com/jmylchreest/carlogos/internal/debounce"
	"github.com/jmylchreest/carlogos/internal/grid"
	"github.com/jmylchreest/carlogos/internal/loader"
	"github.com/jmylchreest/carlogos/internal/model"
	"github.com/jmylchreest/carlogos/internal/theme"
)

// DefaultDebounce is the quiet period before a typed search runs.
const DefaultDebounce = 300 * time.Millisecond

// Dispatcher runs fn on the host's event loop.
type Dispatcher func(fn func())

// Fetcher loads the dataset.
type Fetcher interface {
	Fetch(ctx context.Context) (*loader.Result, error)
}

// Options configures a Controller.
type Options struct {
	View         grid.View
	Fetcher      Fetcher
	Opener       grid.Opener
	Preferences  theme.Preferences
	DefaultTheme theme.Theme
	Debounce     time.Duration
	Dispatch     Dispatcher // nil runs searches on the timer goroutine
	Logger       *slog.Logger
}

// Controller holds the collection state.
type Controller struct {
	view     grid.View
	fetcher  Fetcher
	opener   grid.Opener
	theme    *theme.Store
	dispatch Dispatcher
	logger   *slog.Logger
	search   *debounce.Debouncer[string]

	all      []model.Logo
	filtered []model.Logo
	term     string
	loading  bool
	loaded   bool
	err      error
	info     loader.FetchInfo
}

// New creates a Controller. Nothing is drawn until Start or Bootstrap.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	delay := opts.Debounce
	if delay <= 0 {
		delay = DefaultDebounce
	}
	dispatch := opts.Dispatch
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}

	c := &Controller{
		view:     opts.View,
		fetcher:  opts.Fetcher,
		opener:   opts.Opener,
		dispatch: dispatch,
		logger:   logger,
	}
	c.theme = theme.NewStore(opts.Preferences, theme.ApplierFunc(c.applyTheme), opts.DefaultTheme, logger)
	c.search = debounce.New(delay, func(term string) {
		c.dispatch(func() { c.Search(term) })
	})
	return c
}

// Start initialises the theme and performs the initial load synchronously.
func (c *Controller) Start(ctx context.Context) error {
	c.Bootstrap()
	res, err := c.Fetch(ctx)
	c.FinishLoad(res, err)
	return err
}

// Bootstrap initialises the theme and shows the loading indicator. The host
// then calls Fetch off the event loop and FinishLoad back on it.
func (c *Controller) Bootstrap() {
	c.theme.Init()
	c.BeginLoad()
}

// BeginLoad shows the loading indicator and hides the error indicator.
func (c *Controller) BeginLoad() {
	c.loading = true
	c.view.SetIndicator(grid.IndicatorLoading, true)
	c.view.SetIndicator(grid.IndicatorError, false)
}

// Fetch loads the dataset without touching controller state.
func (c *Controller) Fetch(ctx context.Context) (*loader.Result, error) {
	return c.fetcher.Fetch(ctx)
}

// FinishLoad applies the outcome of Fetch. On failure the error is logged,
// the error indicator shown and the collection and count left untouched.
func (c *Controller) FinishLoad(res *loader.Result, err error) {
	c.loading = false
	c.view.SetIndicator(grid.IndicatorLoading, false)

	if err != nil {
		c.err = err
		c.logger.Error("failed to load logos", "error", err)
		c.view.SetIndicator(grid.IndicatorError, true)
		return
	}

	c.err = nil
	c.loaded = true
	c.info = res.Info
	c.all = res.Logos
	c.filtered = core.Filter(c.term, c.all)
	c.view.SetIndicator(grid.IndicatorError, false)
	c.render()
}

// SearchDebounced schedules a search for term, replacing any pending one.
func (c *Controller) SearchDebounced(term string) {
	c.search.Trigger(term)
}

// Search filters the collection immediately and redraws the view.
func (c *Controller) Search(term string) {
	c.search.Cancel()
	c.term = term
	c.filtered = core.Filter(term, c.all)
	c.render()
}

// FlushSearch runs a pending debounced search now, on the caller's
// goroutine. It reports whether one was pending.
func (c *Controller) FlushSearch() bool {
	term, ok := c.search.Take()
	if !ok {
		return false
	}
	c.Search(term)
	return true
}

// SearchPending reports whether a debounced search is waiting to run.
func (c *Controller) SearchPending() bool {
	return c.search.Pending()
}

func (c *Controller) render() {
	grid.Render(c.view, c.filtered, c.opener)
	c.view.SetCount(core.CountLabel(len(c.filtered), len(c.all)))
}

// Activate opens the source of the index-th visible logo. Out-of-range
// indexes and logos without a source do nothing.
func (c *Controller) Activate(index int) error {
	if index < 0 || index >= len(c.filtered) {
		return nil
	}
	return grid.NewCard(index, c.filtered[index], c.opener).Activate()
}

// ToggleTheme flips and persists the theme.
func (c *Controller) ToggleTheme() theme.Theme {
	return c.theme.Toggle()
}

// ReloadTheme re-reads the persisted theme, reporting whether it changed.
func (c *Controller) ReloadTheme() (theme.Theme, bool) {
	return c.theme.Reload()
}

// Theme returns the active theme.
func (c *Controller) Theme() theme.Theme {
	return c.theme.Current()
}

func (c *Controller) applyTheme(t theme.Theme) {
	c.view.SetThemeIcon(t.Icon())
	if a, ok := c.view.(theme.Applier); ok {
		a.ApplyTheme(t)
	}
}

// All returns the full collection as last fetched.
func (c *Controller) All() []model.Logo { return c.all }

// Filtered returns the visible collection.
func (c *Controller) Filtered() []model.Logo { return c.filtered }

// Term returns the last applied search term.
func (c *Controller) Term() string { return c.term }

// Loading reports whether a load is in progress.
func (c *Controller) Loading() bool { return c.loading }

// Loaded reports whether a load has succeeded.
func (c *Controller) Loaded() bool { return c.loaded }

// Err returns the last load error.
func (c *Controller) Err() error { return c.err }

// Info describes the last successful fetch.
func (c *Controller) Info() loader.FetchInfo { return c.info }

// CountLabel returns the label for the current collections.
func (c *Controller) CountLabel() string {
	return core.CountLabel(len(c.filtered), len(c.all))
}

// Stop cancels any pending search.
func (c *Controller) Stop() {
	c.search.Stop()
}
