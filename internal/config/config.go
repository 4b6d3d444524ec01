package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Source represents where a configuration value came from.
type Source string

const (
	SourceDefault  Source = "default"
	SourceUserFile Source = "user file"
	SourceProjFile Source = "project file"
	SourceEnv      Source = "environment"
	SourceFlag     Source = "flag"
)

// Default values.
const (
	DefaultDir        = "."
	DefaultPattern    = "*.yaml"
	DefaultSchemaFile = "custom_mappings_schema.json"
	DefaultSchemaURL  = "https://raw.githubusercontent.com/RickDB/PlexAniSync/master/custom_mappings_schema.json"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for mappingcheck.
type Config struct {
	// Mapping files
	Dir      string   `toml:"dir"`
	Patterns []string `toml:"patterns"`

	// Schema cache and its remote fallback
	SchemaFile string `toml:"schema_file"`
	SchemaURL  string `toml:"schema_url"`
	Offline    bool   `toml:"offline"`

	// Optional machine-readable report
	ReportFile string `toml:"report_file"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogPrefix     string `toml:"log_prefix"`

	// WorkDir is the directory relative paths are resolved against (computed).
	WorkDir string `toml:"-"`

	// Files lists the config files that were loaded, lowest priority first.
	Files []string `toml:"-"`

	// Sources maps each config key to the layer that last set it.
	Sources map[string]Source `toml:"-"`
}

// Keys returns the configurable keys in display order.
func Keys() []string {
	return []string{
		"dir",
		"patterns",
		"schema_file",
		"schema_url",
		"offline",
		"report_file",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"log_prefix",
	}
}

// Value returns the display form of the value stored under key.
func (c *Config) Value(key string) string {
	switch key {
	case "dir":
		return c.Dir
	case "patterns":
		return strings.Join(c.Patterns, ",")
	case "schema_file":
		return c.SchemaFile
	case "schema_url":
		return c.SchemaURL
	case "offline":
		return fmt.Sprint(c.Offline)
	case "report_file":
		return c.ReportFile
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return fmt.Sprint(c.LogTimestamps)
	case "log_caller":
		return fmt.Sprint(c.LogCaller)
	case "log_prefix":
		return c.LogPrefix
	}
	return ""
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file
// 3. Project config file (mappingcheck.toml or .mappingcheck.toml in the current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	if path := findProjectConfigFile("."); path != "" {
		if err := loadConfigFile(cfg, path, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Dir = DefaultDir
	cfg.Patterns = []string{DefaultPattern}
	cfg.SchemaFile = DefaultSchemaFile
	cfg.SchemaURL = DefaultSchemaURL
	cfg.Offline = false
	cfg.ReportFile = ""
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
	cfg.LogPrefix = ""

	cfg.Sources = make(map[string]Source, len(Keys()))
	for _, key := range Keys() {
		cfg.Sources[key] = SourceDefault
	}
}

// loadConfigFile decodes a TOML file on top of cfg. Only keys present in the
// file are overwritten; their source is recorded.
func loadConfigFile(cfg *Config, path string, source Source) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	for _, key := range Keys() {
		if md.IsDefined(key) {
			cfg.Sources[key] = source
		}
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	cfg.Dir = expandPath(cfg.Dir)
	cfg.SchemaFile = expandPath(cfg.SchemaFile)
	cfg.ReportFile = expandPath(cfg.ReportFile)

	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	if cfg.Dir == "" {
		cfg.Dir = DefaultDir
	}
	if !filepath.IsAbs(cfg.Dir) {
		cfg.Dir = filepath.Join(cfg.WorkDir, cfg.Dir)
	}
	if cfg.SchemaFile == "" {
		return fmt.Errorf("schema_file must not be empty")
	}
	if !filepath.IsAbs(cfg.SchemaFile) {
		cfg.SchemaFile = filepath.Join(cfg.WorkDir, cfg.SchemaFile)
	}
	if cfg.ReportFile != "" && !filepath.IsAbs(cfg.ReportFile) {
		cfg.ReportFile = filepath.Join(cfg.WorkDir, cfg.ReportFile)
	}

	if len(cfg.Patterns) == 0 {
		return fmt.Errorf("patterns must not be empty")
	}
	for _, p := range cfg.Patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("invalid pattern %q: %w", p, err)
		}
	}
	if cfg.SchemaURL == "" && !cfg.Offline {
		return fmt.Errorf("schema_url must not be empty unless offline is set")
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level %q (want debug, info, warn or error)", cfg.LogLevel)
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	switch cfg.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log_format %q (want text, json or logfmt)", cfg.LogFormat)
	}

	return nil
}
