package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/lifevault/internal/flagx"
)

// parseFlags overlays cfg with -d, -l and -v from args. Other arguments,
// including -c/-config, are left to their own loaders.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-d", "-l", "-v"})

	fs := flag.NewFlagSet("lifevault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "directory holding the vault database")
	autoLock := fs.Int("l", cfg.AutoLockMinutes(), "auto-lock after this many idle minutes (0 disables)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "l" {
			cfg.AutoLockTimeout = time.Duration(*autoLock) * time.Minute
		}
	})
	return nil
}
