// Package config loads runtime configuration for the recipebook client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults), pointing at local
//     development services on ports 8001–8003.
//  2. Optional JSON file selected via -c or -config.
//  3. RECIPEBOOK_* environment variables (sethvargo/go-envconfig).
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
// Every key is optional; durations accept "15s" or integer nanoseconds:
//
//	{
//	  "auth_base_url": "http://localhost:8001",
//	  "recipe_base_url": "http://localhost:8002",
//	  "rating_base_url": "http://localhost:8003",
//	  "gateway_url": "",
//	  "request_timeout": "15s",
//	  "session_store": "sqlite",
//	  "session_db_path": "recipebook.db",
//	  "redis_addr": "localhost:6379",
//	  "redis_db": 0,
//	  "redis_key": "recipebook:session",
//	  "log_level": "info",
//	  "log_pretty": false
//	}
//
// # Topologies
//
// The three services can be addressed as separate origins (the default) or
// through one ingress: set gateway_url / RECIPEBOOK_GATEWAY_URL / -gateway and
// (*Config).ServiceURLs derives the auth base /api/users, the recipe base /api
// (recipes live at /api/recipes) and the rating base /api/ratings under it.
package config
