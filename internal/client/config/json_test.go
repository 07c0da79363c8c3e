package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("FIELDCHECK_CONFIG", "")

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"base_url":         "https://api.example",
		"client_id":        "json-client",
		"upstream_timeout": "10s",
		"cache_path":       "/tmp/fc.db",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{OAuthURL: "https://keep.example/oauth"}
		parseJson(cfg)

		assert.Equal(t, "https://api.example", cfg.BaseURL)
		assert.Equal(t, "json-client", cfg.ClientID)
		assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
		assert.Equal(t, "/tmp/fc.db", cfg.CachePath)
		assert.Equal(t, "https://keep.example/oauth", cfg.OAuthURL)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{BaseURL: "https://defaults.example", UpstreamTimeout: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "https://defaults.example", cfg.BaseURL)
		assert.Equal(t, 42*time.Second, cfg.UpstreamTimeout)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
