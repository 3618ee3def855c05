package config

import (
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8001", c.AuthBaseURL)
	assert.Equal(t, "http://localhost:8002", c.RecipeBaseURL)
	assert.Equal(t, "http://localhost:8003", c.RatingBaseURL)
	assert.Empty(t, c.GatewayURL)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, StoreSQLite, c.SessionStore)
	assert.Equal(t, "recipebook.db", c.SessionDBPath)
	assert.NoError(t, c.Validate())
}

func TestLoad_UsesDefaultsWithoutSources(t *testing.T) {
	cfg := load(nil, envconfig.MapLookuper(nil))

	require.NotNil(t, cfg, "load must not return nil")
	assert.Equal(t, "http://localhost:8001", cfg.AuthBaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"auth_base_url":   "http://json-auth",
		"recipe_base_url": "http://json-recipe",
		"request_timeout": "20s",
	})

	env := envconfig.MapLookuper(map[string]string{
		"RECIPEBOOK_RECIPE_URL":      "http://env-recipe",
		"RECIPEBOOK_REQUEST_TIMEOUT": "30s",
	})

	cfg := load([]string{"-c", path, "-t", "40"}, env)

	assert.Equal(t, "http://json-auth", cfg.AuthBaseURL, "json beats defaults")
	assert.Equal(t, "http://env-recipe", cfg.RecipeBaseURL, "env beats json")
	assert.Equal(t, "http://localhost:8003", cfg.RatingBaseURL, "untouched keeps default")
	assert.Equal(t, 40*time.Second, cfg.RequestTimeout, "flags beat env")
}

func TestParseEnv_OverridesOnlyPresentVariables(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	parseEnv(&cfg, envconfig.MapLookuper(map[string]string{
		"RECIPEBOOK_GATEWAY_URL":   "http://ingress",
		"RECIPEBOOK_SESSION_STORE": "redis",
		"RECIPEBOOK_LOG_PRETTY":    "true",
		"RECIPEBOOK_METRICS_ADDR":  ":9464",
	}))

	assert.Equal(t, "http://ingress", cfg.GatewayURL)
	assert.Equal(t, StoreRedis, cfg.SessionStore)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, ":9464", cfg.MetricsAddr)
	assert.Equal(t, "http://localhost:8001", cfg.AuthBaseURL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestParseEnv_BadValuePanics(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	require.Panics(t, func() {
		parseEnv(&cfg, envconfig.MapLookuper(map[string]string{
			"RECIPEBOOK_REQUEST_TIMEOUT": "eventually",
		}))
	})
}

func TestServiceURLs(t *testing.T) {
	tests := []struct {
		name                      string
		cfg                       Config
		wantAuth, wantRec, wantRt string
	}{
		{
			name:     "direct origins",
			cfg:      Config{AuthBaseURL: "http://a", RecipeBaseURL: "http://b", RatingBaseURL: "http://c"},
			wantAuth: "http://a", wantRec: "http://b", wantRt: "http://c",
		},
		{
			name:     "gateway ingress",
			cfg:      Config{AuthBaseURL: "http://a", GatewayURL: "https://recipes.example/"},
			wantAuth: "https://recipes.example/api/users",
			wantRec:  "https://recipes.example/api",
			wantRt:   "https://recipes.example/api/ratings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, recipe, rating := tt.cfg.ServiceURLs()
			assert.Equal(t, tt.wantAuth, auth)
			assert.Equal(t, tt.wantRec, recipe)
			assert.Equal(t, tt.wantRt, rating)
		})
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var c Config
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults ok", mutate: func(c *Config) {}},
		{name: "relative url", mutate: func(c *Config) { c.RecipeBaseURL = "/recipes" }, wantErr: "recipe base URL"},
		{name: "negative timeout", mutate: func(c *Config) { c.RequestTimeout = -time.Second }, wantErr: "timeout"},
		{name: "unknown store", mutate: func(c *Config) { c.SessionStore = "cookie" }, wantErr: "unknown session store"},
		{name: "sqlite without path", mutate: func(c *Config) { c.SessionDBPath = "" }, wantErr: "session db path"},
		{name: "redis without key", mutate: func(c *Config) {
			c.SessionStore = StoreRedis
			c.RedisKey = ""
		}, wantErr: "redis address and key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
