package config

import (
	"flag"
	"strings"

	"github.com/plexanisync/mappingcheck/internal/utils"
)

// flagKeys maps flag names to the config keys they set.
var flagKeys = map[string]string{
	"dir":            "dir",
	"pattern":        "patterns",
	"schema":         "schema_file",
	"schema-url":     "schema_url",
	"offline":        "offline",
	"report":         "report_file",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"log-prefix":     "log_prefix",
}

// parseFlags defines the global CLI flags on fs, parses args and records the
// source of every flag that was explicitly set.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet(appName, flag.ContinueOnError)
	}

	patterns := strings.Join(cfg.Patterns, ",")

	fs.StringVar(&cfg.Dir, "dir", cfg.Dir, "Directory containing mapping files")
	fs.StringVar(&patterns, "pattern", patterns, "Comma-separated glob patterns of mapping files")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "Path to the local schema cache")
	fs.StringVar(&cfg.SchemaURL, "schema-url", cfg.SchemaURL, "Remote schema URL used when the cache is missing")
	fs.BoolVar(&cfg.Offline, "offline", cfg.Offline, "Never fetch the schema; a missing cache is fatal")
	fs.StringVar(&cfg.ReportFile, "report", cfg.ReportFile, "Also write a JSON report to this path")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller information in log output")
	fs.StringVar(&cfg.LogPrefix, "log-prefix", cfg.LogPrefix, "Prefix for log lines")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if key == "patterns" {
			cfg.Patterns = utils.SplitAndTrim(patterns, ",")
		}
		cfg.Sources[key] = SourceFlag
	})

	return nil
}
