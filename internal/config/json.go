package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/lifevault/internal/flagx"
	"github.com/dmitrijs2005/lifevault/internal/timex"
)

// JSONConfig is the on-disk form of Config. Pointer fields tell an absent
// key from a zero value.
type JSONConfig struct {
	DataDir         *string         `json:"data_dir"`
	DBFile          *string         `json:"db_file"`
	AutoLockTimeout *timex.Duration `json:"auto_lock_timeout"`
	LogLevel        *string         `json:"log_level"`
	Currency        *string         `json:"currency"`
}

// parseJSON overlays cfg with the file named by -c/-config in args. Without
// either flag it does nothing.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.DBFile != nil {
		cfg.DBFile = *jc.DBFile
	}
	if jc.AutoLockTimeout != nil {
		cfg.AutoLockTimeout = jc.AutoLockTimeout.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.Currency != nil {
		cfg.Currency = *jc.Currency
	}
	return nil
}
