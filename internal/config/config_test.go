package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/lifevault/internal/filex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, filex.DefaultDataDir(), c.DataDir)
	assert.Equal(t, "lifevault.db", c.DBFile)
	assert.Equal(t, 15*time.Minute, c.AutoLockTimeout)
	assert.Equal(t, 15, c.AutoLockMinutes())
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.Currency)
}

func TestDSN(t *testing.T) {
	c := Config{DataDir: "/var/lv", DBFile: "vault.db"}
	assert.Equal(t, filepath.Join("/var/lv", "vault.db"), c.DSN())

	c.DBFile = MemoryDB
	assert.Equal(t, MemoryDB, c.DSN())
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultAutoLockTimeout, cfg.AutoLockTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lv.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data_dir":"/from/json","auto_lock_timeout":"30m","currency":"EUR"}`), 0o600))

	cfg, err := LoadConfig([]string{"-c", path, "-d", "/from/flag"})
	require.NoError(t, err)

	assert.Equal(t, "/from/flag", cfg.DataDir)
	assert.Equal(t, 30*time.Minute, cfg.AutoLockTimeout)
	assert.Equal(t, "EUR", cfg.Currency)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig([]string{"-v", "loud"})
	assert.Error(t, err)

	_, err = LoadConfig([]string{"-l", "-5"})
	assert.Error(t, err)

	_, err = LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}
