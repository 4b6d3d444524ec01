// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.mappingcheck/mappingcheck.toml or OS-specific config directory)
// 3. Project config file (mappingcheck.toml or .mappingcheck.toml in the working directory)
// 4. Environment variables (MAPPINGCHECK_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence. The
// source of every value is recorded in Config.Sources.
//
// User-level config locations:
// - ~/.mappingcheck/mappingcheck.toml (preferred)
// - Windows: %APPDATA%\mappingcheck\mappingcheck.toml
// - macOS: ~/Library/Application Support/mappingcheck/mappingcheck.toml
// - Linux/BSD: $XDG_CONFIG_HOME/mappingcheck/mappingcheck.toml or ~/.config/mappingcheck/mappingcheck.toml
package config
