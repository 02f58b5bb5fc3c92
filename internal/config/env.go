package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from TODOPUZZLE_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setString := func(env, field string, target *string) {
		if v := os.Getenv(env); v != "" {
			*target = v
			if sources != nil {
				sources[field] = SourceEnv
			}
		}
	}
	setBool := func(env, field string, target *bool) {
		if v := os.Getenv(env); v != "" {
			*target = boolFromString(v)
			if sources != nil {
				sources[field] = SourceEnv
			}
		}
	}

	setString("TODOPUZZLE_TODO", "todo_file", &cfg.TodoFile)
	setString("TODOPUZZLE_STATE", "state_file", &cfg.StateFile)
	setString("TODOPUZZLE_SCHEMA", "schema_file", &cfg.SchemaFile)
	setString("TODOPUZZLE_LOG_DIR", "log_dir", &cfg.LogDir)
	setString("TODOPUZZLE_CITY", "city", &cfg.City)
	setString("TODOPUZZLE_IMAGE_URL", "image_url_template", &cfg.ImageURLTemplate)
	setString("TODOPUZZLE_ADDR", "listen_addr", &cfg.ListenAddr)
	setString("TODOPUZZLE_HOOK", "hook_command", &cfg.HookCommand)

	// Logging configuration
	setString("TODOPUZZLE_LOG_LEVEL", "log_level", &cfg.LogLevel)
	setString("TODOPUZZLE_LOG_FORMAT", "log_format", &cfg.LogFormat)
	setBool("TODOPUZZLE_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	setBool("TODOPUZZLE_LOG_CALLER", "log_caller", &cfg.LogCaller)
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
