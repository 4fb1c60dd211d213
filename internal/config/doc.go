// Package config loads runtime configuration for the lifevault CLI.
//
// Sources, later ones overriding earlier ones:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Supported flags
//
//	-d string   directory holding the vault database
//	-l int      auto-lock after this many idle minutes (0 disables)
//	-v string   log level: debug, info, warn or error
//
// # JSON schema
//
// Durations use timex.Duration, so "15m" and integer nanoseconds both work.
// Missing keys keep their previous value.
//
//	{
//	  "data_dir": "~/.config/lifevault",
//	  "db_file": "lifevault.db",
//	  "auto_lock_timeout": "15m",
//	  "log_level": "info",
//	  "currency": "EUR"
//	}
//
// An auto-lock period saved from inside the application takes precedence
// over the configured one.
package config
