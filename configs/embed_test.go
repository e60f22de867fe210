package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/lasquery-mcp-server/internal/dsl"
	"github.com/codex-k8s/lasquery-mcp-server/internal/render"
)

func TestEmbeddedConfigsLoad(t *testing.T) {
	names := Names()
	require.NotEmpty(t, names)
	assert.Equal(t, []string{"lasquery-wine.yaml", "lasquery.yaml"}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			raw, err := Load(name)
			require.NoError(t, err)
			rendered, err := render.RenderBytes(name, raw)
			require.NoError(t, err)
			cfg, err := dsl.Load(rendered)
			require.NoError(t, err)
			assert.NotEmpty(t, cfg.LAStools.Folder)
		})
	}
}

func TestLoadDefault(t *testing.T) {
	data, err := Load("")
	require.NoError(t, err)
	want, err := Load(Default)
	require.NoError(t, err)
	assert.Equal(t, want, data)
}

func TestLoadUnknownListsAvailable(t *testing.T) {
	_, err := Load("missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lasquery-wine.yaml, lasquery.yaml")
}
