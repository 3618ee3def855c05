package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// parseEnv overlays Config with RECIPEBOOK_* environment variables. Only
// variables that are present override the current values.
//
// Panics on malformed values (e.g. a non-duration timeout), matching the
// behaviour of the JSON and flag loaders.
func parseEnv(cfg *Config, lookuper envconfig.Lookuper) {
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		panic(err)
	}
}
