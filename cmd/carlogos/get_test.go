package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/carlogos/internal/config"
	"github.com/jmylchreest/carlogos/internal/model"
)

func newTestGetCmd(t *testing.T, out *bytes.Buffer) *cobra.Command {
	t.Helper()
	saved := getOpts
	savedCfg := cfg
	t.Cleanup(func() {
		getOpts = saved
		cfg = savedCfg
	})
	cfg = config.DefaultConfig()

	cmd := &cobra.Command{Use: "get"}
	cmd.Flags().StringVarP(&getOpts.format, "format", "f", "dmenu", "")
	cmd.Flags().StringVar(&getOpts.field, "field", "", "")
	cmd.SetOut(out)
	return cmd
}

func TestOutputSingle_DefaultsToJSON(t *testing.T) {
	var out bytes.Buffer
	cmd := newTestGetCmd(t, &out)

	l := &model.Logo{Name: "Toyota", Slug: "toyota"}
	require.NoError(t, outputSingle(cmd, l))
	assert.Contains(t, out.String(), `"slug": "toyota"`)
}

func TestOutputSingle_ExplicitFormat(t *testing.T) {
	var out bytes.Buffer
	cmd := newTestGetCmd(t, &out)
	require.NoError(t, cmd.Flags().Set("format", "slugs"))

	l := &model.Logo{Name: "Toyota", Slug: "toyota"}
	require.NoError(t, outputSingle(cmd, l))
	assert.Equal(t, "toyota\n", out.String())
}

func TestOutputLogos_UnknownFormat(t *testing.T) {
	var out bytes.Buffer
	newTestGetCmd(t, &out)
	getOpts.format = "xml"

	err := outputLogos(&out, []model.Logo{{Name: "Ford", Slug: "ford"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
