package config

import (
	"os"

	"github.com/plexanisync/mappingcheck/internal/utils"
)

// loadFromEnv overrides config from MAPPINGCHECK_* environment variables.
func loadFromEnv(cfg *Config) {
	setString := func(env, key string, target *string) {
		if v := os.Getenv(env); v != "" {
			*target = v
			cfg.Sources[key] = SourceEnv
		}
	}
	setBool := func(env, key string, target *bool) {
		if v := os.Getenv(env); v != "" {
			*target = utils.BoolFromString(v)
			cfg.Sources[key] = SourceEnv
		}
	}

	setString("MAPPINGCHECK_DIR", "dir", &cfg.Dir)
	if v := os.Getenv("MAPPINGCHECK_PATTERNS"); v != "" {
		cfg.Patterns = utils.SplitAndTrim(v, ",")
		cfg.Sources["patterns"] = SourceEnv
	}
	setString("MAPPINGCHECK_SCHEMA", "schema_file", &cfg.SchemaFile)
	setString("MAPPINGCHECK_SCHEMA_URL", "schema_url", &cfg.SchemaURL)
	setBool("MAPPINGCHECK_OFFLINE", "offline", &cfg.Offline)
	setString("MAPPINGCHECK_REPORT", "report_file", &cfg.ReportFile)

	// Logging configuration
	setString("MAPPINGCHECK_LOG_LEVEL", "log_level", &cfg.LogLevel)
	setString("MAPPINGCHECK_LOG_FORMAT", "log_format", &cfg.LogFormat)
	setBool("MAPPINGCHECK_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	setBool("MAPPINGCHECK_LOG_CALLER", "log_caller", &cfg.LogCaller)
	setString("MAPPINGCHECK_LOG_PREFIX", "log_prefix", &cfg.LogPrefix)
}
