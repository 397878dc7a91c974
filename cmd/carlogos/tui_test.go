package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/carlogos/internal/config"
)

func TestFileLogger_LoaderLogsToFile(t *testing.T) {
	savedCfg, savedOpts, savedDefault := cfg, globalOpts, slog.Default()
	t.Cleanup(func() {
		cfg, globalOpts = savedCfg, savedOpts
		slog.SetDefault(savedDefault)
	})

	t.Setenv("XDG_DATA_HOME", t.TempDir())
	globalOpts.verbose = true

	data := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(data, []byte(`[{"name":"Toyota","slug":"toyota"}]`), 0o600))
	cfg = config.DefaultConfig()
	cfg.Source.URL = data

	l, closeLog := fileLogger()
	ld, err := newLoader(l)
	require.NoError(t, err)
	_, err = ld.Fetch(context.Background())
	require.NoError(t, err)
	closeLog()

	logged, err := os.ReadFile(config.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(logged), "fetching logos")
	assert.Contains(t, string(logged), "fetched logos")
}

func TestRunTUI_RejectsStdinSource(t *testing.T) {
	savedCfg := cfg
	t.Cleanup(func() { cfg = savedCfg })
	cfg = config.DefaultConfig()
	cfg.Source.URL = "-"

	assert.ErrorIs(t, runTUI(tuiCmd, nil), errStdinTUI)
}
