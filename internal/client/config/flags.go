package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/flagx"
)

var knownFlags = []string{
	"-auth", "-recipe", "-rating", "-gateway", "-t",
	"-store", "-db", "-redis", "-redis-key", "-log-level", "-pretty", "-metrics-addr",
}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-auth string       auth service base URL
//	-recipe string     recipe service base URL
//	-rating string     rating service base URL
//	-gateway string    single ingress URL (overrides the three above)
//	-t int             request timeout in seconds
//	-store string      session store: sqlite or redis
//	-db string         SQLite session database path
//	-redis string      Redis address for the redis store
//	-redis-key string  Redis hash key holding the session
//	-log-level string  trace, debug, info, warn, error
//	-pretty            human-readable logs
//	-metrics-addr      listen address for the /metrics endpoint
//
// Only the flags above are parsed (see flagx.FilterArgs); anything else is
// left for other components.
func parseFlags(cfg *Config, args []string) {
	filtered := flagx.FilterArgs(args, knownFlags, "-pretty")

	fs := flag.NewFlagSet("recipebook", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.AuthBaseURL, "auth", cfg.AuthBaseURL, "auth service base URL")
	fs.StringVar(&cfg.RecipeBaseURL, "recipe", cfg.RecipeBaseURL, "recipe service base URL")
	fs.StringVar(&cfg.RatingBaseURL, "rating", cfg.RatingBaseURL, "rating service base URL")
	fs.StringVar(&cfg.GatewayURL, "gateway", cfg.GatewayURL, "single ingress URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.SessionStore, "store", cfg.SessionStore, "session store: sqlite or redis")
	fs.StringVar(&cfg.SessionDBPath, "db", cfg.SessionDBPath, "SQLite session database path")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address")
	fs.StringVar(&cfg.RedisKey, "redis-key", cfg.RedisKey, "Redis session hash key")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.LogPretty, "pretty", cfg.LogPretty, "human-readable logs")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "listen address for /metrics")

	if err := fs.Parse(filtered); err != nil {
		panic(err)
	}

	if isSet(fs, "t") {
		cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	}
}

func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
