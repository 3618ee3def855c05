package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	defaults := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		expected    func() *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "Test1 OK",
			args: []string{"-auth", "http://auth:9001", "-t", "10", "-pretty", "-db", "/tmp/s.db"},
			expected: func() *Config {
				c := defaults()
				c.AuthBaseURL = "http://auth:9001"
				c.RequestTimeout = 10 * time.Second
				c.LogPretty = true
				c.SessionDBPath = "/tmp/s.db"
				return c
			},
		},
		{
			name: "Test2 foreign flags ignored",
			args: []string{"-x", "1", "-gateway", "http://ingress", "extra"},
			expected: func() *Config {
				c := defaults()
				c.GatewayURL = "http://ingress"
				return c
			},
		},
		{
			name:     "Test3 timeout untouched when flag absent",
			args:     []string{"-store", "redis"},
			expected: func() *Config { c := defaults(); c.SessionStore = StoreRedis; return c },
		},
		{
			name:     "Test4 metrics endpoint",
			args:     []string{"-metrics-addr", "127.0.0.1:9464"},
			expected: func() *Config { c := defaults(); c.MetricsAddr = "127.0.0.1:9464"; return c },
		},
		{name: "Test5 incorrect timeout", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
				return
			}

			require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected(), cfg))
		})
	}
}
