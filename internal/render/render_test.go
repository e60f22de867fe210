package render

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBytesSubstitutesEnv(t *testing.T) {
	t.Setenv("LASQUERY_TEST_FOLDER", "/opt/lastools")
	out, err := RenderBytes("cfg", []byte(`folder: {{ env "LASQUERY_TEST_FOLDER" }}
wine: {{ envOr "LASQUERY_TEST_UNSET_WINE" "/usr/bin" }}
ext: {{ default ".shp" "" | lower }}`))
	require.NoError(t, err)
	assert.Equal(t, "folder: /opt/lastools\nwine: /usr/bin\next: .shp", string(out))
}

func TestRenderBytesMissingEnv(t *testing.T) {
	_, err := RenderBytes("", []byte(`a: {{ env "LASQUERY_TEST_NOPE_B" }}
b: {{ env "LASQUERY_TEST_NOPE_A" }}`))
	var missing *MissingEnvError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"LASQUERY_TEST_NOPE_A", "LASQUERY_TEST_NOPE_B"}, missing.Names)
}

func TestRenderBytesBadTemplate(t *testing.T) {
	_, err := RenderBytes("cfg", []byte("{{ env "))
	require.Error(t, err)
}

func TestRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: {{ upper \"lasquery\" }}\n"), 0o644))
	out, err := RenderFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name: LASQUERY\n", string(out))

	_, err = RenderFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
