package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	base := func() *Config {
		return &Config{DataDir: "/default", DBFile: "lifevault.db", AutoLockTimeout: 15 * time.Minute, LogLevel: "info"}
	}

	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name:     "all flags",
			args:     []string{"-d", "/data", "-l", "5", "-v", "debug"},
			expected: &Config{DataDir: "/data", DBFile: "lifevault.db", AutoLockTimeout: 5 * time.Minute, LogLevel: "debug"},
		},
		{
			name:     "zero disables auto-lock",
			args:     []string{"-l=0"},
			expected: &Config{DataDir: "/default", DBFile: "lifevault.db", LogLevel: "info"},
		},
		{
			name:     "untouched without flags",
			args:     []string{"-c", "cfg.json", "extra"},
			expected: base(),
		},
		{
			name:    "non-numeric auto-lock",
			args:    []string{"-l", "abc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestParseFlags_SubMinuteTimeoutSurvives(t *testing.T) {
	cfg := &Config{AutoLockTimeout: 90 * time.Second, LogLevel: "info"}
	require.NoError(t, parseFlags(cfg, []string{"-v", "warn"}))
	assert.Equal(t, 90*time.Second, cfg.AutoLockTimeout)
}
