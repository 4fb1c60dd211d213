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

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestParseJSON(t *testing.T) {
	t.Run("overlays present keys", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"data_dir":          "/srv/lifevault",
			"auto_lock_timeout": "0s",
			"log_level":         "debug",
		})
		cfg := &Config{DataDir: "/default", DBFile: "keep.db", AutoLockTimeout: time.Minute, LogLevel: "info", Currency: "USD"}

		require.NoError(t, parseJSON(cfg, []string{"-config", path}))

		assert.Equal(t, "/srv/lifevault", cfg.DataDir)
		assert.Equal(t, "keep.db", cfg.DBFile)
		assert.Equal(t, time.Duration(0), cfg.AutoLockTimeout)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "USD", cfg.Currency)
	})

	t.Run("no flag leaves config alone", func(t *testing.T) {
		cfg := &Config{DataDir: "/default"}
		require.NoError(t, parseJSON(cfg, []string{"-d", "/other"}))
		assert.Equal(t, "/default", cfg.DataDir)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ not json`), 0o600))
		assert.Error(t, parseJSON(&Config{}, []string{"-c", bad}))
	})

	t.Run("invalid duration", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"auto_lock_timeout": "soon"})
		assert.Error(t, parseJSON(&Config{}, []string{"-c", path}))
	})
}
