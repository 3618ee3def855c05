package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session storage backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Path prefixes used when all three services sit behind one ingress. The
// recipe service already serves its routes under /recipes, so the ingress
// exposes it at /api/recipes with the bare /api prefix.
const (
	gatewayAuthPrefix   = "/api/users"
	gatewayRecipePrefix = "/api"
	gatewayRatingPrefix = "/api/ratings"
)

// Config holds runtime settings for the recipebook client.
//
// The three base URLs address the auth, recipe and rating services directly.
// When GatewayURL is set it takes precedence and the three services are
// reached through it: /api/users/token, /api/recipes/{id},
// /api/ratings/ratings and so on.
type Config struct {
	AuthBaseURL   string `env:"RECIPEBOOK_AUTH_URL, overwrite"`
	RecipeBaseURL string `env:"RECIPEBOOK_RECIPE_URL, overwrite"`
	RatingBaseURL string `env:"RECIPEBOOK_RATING_URL, overwrite"`
	GatewayURL    string `env:"RECIPEBOOK_GATEWAY_URL, overwrite"`

	RequestTimeout time.Duration `env:"RECIPEBOOK_REQUEST_TIMEOUT, overwrite"`

	SessionStore  string `env:"RECIPEBOOK_SESSION_STORE, overwrite"`
	SessionDBPath string `env:"RECIPEBOOK_SESSION_DB, overwrite"`
	RedisAddr     string `env:"RECIPEBOOK_REDIS_ADDR, overwrite"`
	RedisDB       int    `env:"RECIPEBOOK_REDIS_DB, overwrite"`
	RedisKey      string `env:"RECIPEBOOK_REDIS_KEY, overwrite"`

	LogLevel  string `env:"RECIPEBOOK_LOG_LEVEL, overwrite"`
	LogPretty bool   `env:"RECIPEBOOK_LOG_PRETTY, overwrite"`

	// MetricsAddr, when set, serves gateway metrics at /metrics.
	MetricsAddr string `env:"RECIPEBOOK_METRICS_ADDR, overwrite"`
}

// LoadDefaults populates c with local development defaults.
func (c *Config) LoadDefaults() {
	c.AuthBaseURL = "http://localhost:8001"
	c.RecipeBaseURL = "http://localhost:8002"
	c.RatingBaseURL = "http://localhost:8003"
	c.GatewayURL = ""
	c.RequestTimeout = 15 * time.Second
	c.SessionStore = StoreSQLite
	c.SessionDBPath = "recipebook.db"
	c.RedisAddr = "localhost:6379"
	c.RedisDB = 0
	c.RedisKey = "recipebook:session"
	c.LogLevel = "info"
	c.LogPretty = false
	c.MetricsAddr = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a JSON file (if requested), the environment and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	return load(os.Args[1:], envconfig.OsLookuper())
}

func load(args []string, lookuper envconfig.Lookuper) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg, lookuper)
	parseFlags(cfg, args)
	return cfg
}

// ServiceURLs resolves the base URLs of the auth, recipe and rating services
// for the configured topology.
func (c *Config) ServiceURLs() (auth, recipe, rating string) {
	if c.GatewayURL == "" {
		return c.AuthBaseURL, c.RecipeBaseURL, c.RatingBaseURL
	}
	base := strings.TrimRight(c.GatewayURL, "/")
	return base + gatewayAuthPrefix, base + gatewayRecipePrefix, base + gatewayRatingPrefix
}

// Validate checks that the resolved configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	auth, recipe, rating := c.ServiceURLs()
	for name, raw := range map[string]string{"auth": auth, "recipe": recipe, "rating": rating} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s base URL %q must be an absolute URL", name, raw))
		}
	}

	if c.RequestTimeout < 0 {
		errs = append(errs, errors.New("request timeout must not be negative"))
	}

	switch c.SessionStore {
	case StoreSQLite:
		if c.SessionDBPath == "" {
			errs = append(errs, errors.New("session db path is required for the sqlite store"))
		}
	case StoreRedis:
		if c.RedisAddr == "" || c.RedisKey == "" {
			errs = append(errs, errors.New("redis address and key are required for the redis store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown session store %q", c.SessionStore))
	}

	return errors.Join(errs...)
}
