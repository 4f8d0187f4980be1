package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "weaver.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_DecodesEndpointsAndDefaultsListen(t *testing.T) {
	path := writeTempConfig(t, `{
		"endpoints": [
			{"name": "A", "url": "https://a.example.com/graphql"}
		]
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	require.Len(t, cfg.Endpoints, 1)
	assert.Equal(t, "A", cfg.Endpoints[0].Name)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	path := writeTempConfig(t, `{"endpoints": [], "bogus": true}`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_RejectsEmptyEndpointList(t *testing.T) {
	path := writeTempConfig(t, `{"endpoints": []}`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFileIsConfigError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoad_EnvOverridesListenAddress(t *testing.T) {
	path := writeTempConfig(t, `{
		"listen": ":9090",
		"endpoints": [{"name": "A", "url": "https://a.example.com/graphql"}]
	}`)

	t.Setenv("WEAVER_LISTEN", ":1234")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":1234", cfg.Listen)
}
