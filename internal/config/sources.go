package config

import (
	"os"
	"path/filepath"
)

const (
	appName        = "mappingcheck"
	configFileName = appName + ".toml"
)

// findProjectConfigFile looks for a config file in dir.
func findProjectConfigFile(dir string) string {
	for _, name := range []string{configFileName, "." + configFileName} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// findUserConfigFile returns ~/.mappingcheck/mappingcheck.toml if present,
// else mappingcheck/mappingcheck.toml under os.UserConfigDir.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		path := filepath.Join(home, "."+appName, configFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	if cfgDir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(cfgDir, appName, configFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
