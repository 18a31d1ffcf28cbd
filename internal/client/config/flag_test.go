package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-u", "https://x.example", "-k", "key", "-s", "plain", "-d", "x.db",
				"-t", "4", "-i", "9", "-r", "http://cb", "-l", "warn"},
			expected: &Config{
				BaseURL: "https://x.example", APIKey: "key", APIStyle: "plain", DatabasePath: "x.db",
				RequestTimeout: 4 * time.Second, OnlineCheckInterval: 9 * time.Second,
				OAuthRedirectURL: "http://cb", LogLevel: "warn",
			},
		},
		{
			name:     "foreign flags ignored",
			args:     []string{"-c", "conf.json", "-u", "https://y.example"},
			expected: &Config{BaseURL: "https://y.example"},
		},
		{name: "incorrect timeout", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
