package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-d", "/tmp/vault", "-x", "1"},
			allowed: []string{"-d", "-l"},
			want:    []string{"-d", "/tmp/vault"},
		},
		{
			name:    "equals form",
			args:    []string{"-l=5", "-x", "1"},
			allowed: []string{"-d", "-l"},
			want:    []string{"-l=5"},
		},
		{
			name:    "order preserved across forms",
			args:    []string{"-config=first.json", "-c", "second.json", "-v", "debug"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-config=first.json", "-c", "second.json"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "dash token is not taken as value",
			args:    []string{"-c", "-v"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "value starting with dash in equals form",
			args:    []string{"-config=--odd.json"},
			allowed: []string{"-config"},
			want:    []string{"-config=--odd.json"},
		},
		{
			name:    "repeated flag kept",
			args:    []string{"-d", "a", "-d", "b"},
			allowed: []string{"-d"},
			want:    []string{"-d", "a", "-d", "b"},
		},
		{
			name:    "empty",
			args:    []string{},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"-c", "/etc/lv.json"}, "/etc/lv.json"},
		{"long", []string{"-config", "/etc/lv.json", "-d", "x"}, "/etc/lv.json"},
		{"equals", []string{"-config=/etc/lv.json"}, "/etc/lv.json"},
		{"last wins", []string{"-c", "/a.json", "-config", "/b.json"}, "/b.json"},
		{"absent", []string{"-d", "dir", "-v", "debug"}, ""},
		{"missing value", []string{"-c"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigPath(tt.args))
		})
	}
}
