package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/lifevault/internal/filex"
	"github.com/dmitrijs2005/lifevault/internal/logging"
)

// DefaultAutoLockTimeout is the idle period before the vault locks itself.
const DefaultAutoLockTimeout = 15 * time.Minute

// MemoryDB keeps the vault in memory for the lifetime of the process.
const MemoryDB = ":memory:"

// Config holds runtime settings for the CLI.
type Config struct {
	DataDir         string
	DBFile          string
	AutoLockTimeout time.Duration
	LogLevel        string
	// Currency is an ISO 4217 code used to format finance values in
	// exports. Empty prints plain numbers.
	Currency string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = filex.DefaultDataDir()
	c.DBFile = "lifevault.db"
	c.AutoLockTimeout = DefaultAutoLockTimeout
	c.LogLevel = "info"
	c.Currency = ""
}

// DSN returns the database location for database.InitDatabase.
func (c *Config) DSN() string {
	if c.DBFile == MemoryDB {
		return MemoryDB
	}
	return filepath.Join(c.DataDir, c.DBFile)
}

// AutoLockMinutes is AutoLockTimeout in whole minutes.
func (c *Config) AutoLockMinutes() int {
	return int(c.AutoLockTimeout / time.Minute)
}

func (c *Config) validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.AutoLockTimeout < 0 {
		return fmt.Errorf("auto-lock timeout must be >= 0, got %s", c.AutoLockTimeout)
	}
	if c.DBFile == "" {
		return errors.New("db file must not be empty")
	}
	return nil
}

// LoadConfig applies defaults, then the JSON file named in args (if any),
// then the flags in args. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
