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
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"gateway_url":     "http://www.example:9000",
		"request_timeout": "10s",
		"redis_db":        2,
		"log_pretty":      true,
		"metrics_addr":    ":9464",
	})

	t.Run("loads from flags", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-config", pathFlag})

		assert.Equal(t, "http://www.example:9000", cfg.GatewayURL)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 2, cfg.RedisDB)
		assert.True(t, cfg.LogPretty)
		assert.Equal(t, ":9464", cfg.MetricsAddr)
		assert.Equal(t, "http://localhost:8001", cfg.AuthBaseURL, "absent keys keep their value")
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := &Config{
			AuthBaseURL:    "http://defaults:1234",
			RequestTimeout: 42 * time.Second,
		}
		parseJson(cfg, []string{"-t", "5"})

		assert.Equal(t, "http://defaults:1234", cfg.AuthBaseURL)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg, []string{"-c", bad}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg, []string{"-c", filepath.Join(dir, "nope.json")}) })
	})
}
