package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/recipebook/internal/flagx"
	"github.com/dmitrijs2005/recipebook/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Pointer fields distinguish "absent" from "zero", so a file may set only
// the values it cares about.
type JsonConfig struct {
	AuthBaseURL    *string         `json:"auth_base_url"`
	RecipeBaseURL  *string         `json:"recipe_base_url"`
	RatingBaseURL  *string         `json:"rating_base_url"`
	GatewayURL     *string         `json:"gateway_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	SessionStore   *string         `json:"session_store"`
	SessionDBPath  *string         `json:"session_db_path"`
	RedisAddr      *string         `json:"redis_addr"`
	RedisDB        *int            `json:"redis_db"`
	RedisKey       *string         `json:"redis_key"`
	LogLevel       *string         `json:"log_level"`
	LogPretty      *bool           `json:"log_pretty"`
	MetricsAddr    *string         `json:"metrics_addr"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config in args. Without such a flag nothing happens.
//
// Panics on read or unmarshal errors (caller should recover if desired).
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.AuthBaseURL, jc.AuthBaseURL)
	setString(&cfg.RecipeBaseURL, jc.RecipeBaseURL)
	setString(&cfg.RatingBaseURL, jc.RatingBaseURL)
	setString(&cfg.GatewayURL, jc.GatewayURL)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setString(&cfg.SessionStore, jc.SessionStore)
	setString(&cfg.SessionDBPath, jc.SessionDBPath)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
	setString(&cfg.RedisKey, jc.RedisKey)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.LogPretty != nil {
		cfg.LogPretty = *jc.LogPretty
	}
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
