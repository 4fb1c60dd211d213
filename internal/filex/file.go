// Package filex resolves and prepares the on-disk location of the vault.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDirName is the vault directory created under the user config dir.
const DefaultDirName = "lifevault"

// DefaultDataDir returns <user config dir>/lifevault, falling back to
// ./.lifevault when the platform reports no config directory.
func DefaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return "." + DefaultDirName
	}
	return filepath.Join(base, DefaultDirName)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// EnsureDir creates dir (and parents) readable only by the owner and returns
// its absolute path. An existing directory is left as is.
func EnsureDir(dir string) (string, error) {
	dir, err := ExpandHome(dir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}
