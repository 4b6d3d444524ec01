// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// isolate points HOME and the XDG config dir at empty temp directories and
// moves into a fresh working directory, so no real config files leak in.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	work := t.TempDir()
	t.Chdir(work)
	return work
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.Dir != DefaultDir {
		t.Errorf("Dir: got %q, want %q", cfg.Dir, DefaultDir)
	}
	if !reflect.DeepEqual(cfg.Patterns, []string{"*.yaml"}) {
		t.Errorf("Patterns: got %v, want [*.yaml]", cfg.Patterns)
	}
	if cfg.SchemaFile != "custom_mappings_schema.json" {
		t.Errorf("SchemaFile: got %q", cfg.SchemaFile)
	}
	if cfg.SchemaURL != DefaultSchemaURL {
		t.Errorf("SchemaURL: got %q", cfg.SchemaURL)
	}
	for _, key := range Keys() {
		if cfg.Sources[key] != SourceDefault {
			t.Errorf("Sources[%s]: got %q, want default", key, cfg.Sources[key])
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "mappingcheck.toml")

	content := []byte(`dir = "mappings"
patterns = ["*.yaml", "*.yml"]
offline = true
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFile(cfg, configFile, SourceProjFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.Dir != "mappings" {
		t.Errorf("Dir: got %q, want mappings", cfg.Dir)
	}
	if !reflect.DeepEqual(cfg.Patterns, []string{"*.yaml", "*.yml"}) {
		t.Errorf("Patterns: got %v", cfg.Patterns)
	}
	if !cfg.Offline {
		t.Error("Offline: got false, want true")
	}
	if cfg.SchemaFile != DefaultSchemaFile {
		t.Errorf("SchemaFile changed to %q although the file does not set it", cfg.SchemaFile)
	}
	if cfg.Sources["dir"] != SourceProjFile || cfg.Sources["offline"] != SourceProjFile {
		t.Errorf("Sources not tracked: %v", cfg.Sources)
	}
	if cfg.Sources["schema_file"] != SourceDefault {
		t.Errorf("Sources[schema_file]: got %q, want default", cfg.Sources["schema_file"])
	}
	if !reflect.DeepEqual(cfg.Files, []string{configFile}) {
		t.Errorf("Files: got %v", cfg.Files)
	}
}

func TestLoadConfigFileUnknownKey(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "mappingcheck.toml")
	if err := os.WriteFile(configFile, []byte("todo_file = \"x\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	err := loadConfigFile(cfg, configFile, SourceProjFile)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "todo_file") {
		t.Errorf("error should name the key, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MAPPINGCHECK_PATTERNS", "*.yaml, *.yml")
	t.Setenv("MAPPINGCHECK_OFFLINE", "true")
	t.Setenv("MAPPINGCHECK_LOG_LEVEL", "debug")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if !reflect.DeepEqual(cfg.Patterns, []string{"*.yaml", "*.yml"}) {
		t.Errorf("Patterns: got %v", cfg.Patterns)
	}
	if !cfg.Offline {
		t.Error("Offline: got false, want true")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if cfg.Sources["patterns"] != SourceEnv {
		t.Errorf("Sources[patterns]: got %q, want environment", cfg.Sources["patterns"])
	}
	if cfg.Sources["dir"] != SourceDefault {
		t.Errorf("Sources[dir]: got %q, want default", cfg.Sources["dir"])
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"--dir", "mappings",
		"--pattern", "a.yaml,b.yaml",
		"--schema-url", "http://example.invalid/schema.json",
		"--log-format", "json",
		"validate",
	}

	if err := parseFlags(cfg, fs, args); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.Dir != "mappings" {
		t.Errorf("Dir: got %q, want mappings", cfg.Dir)
	}
	if !reflect.DeepEqual(cfg.Patterns, []string{"a.yaml", "b.yaml"}) {
		t.Errorf("Patterns: got %v", cfg.Patterns)
	}
	if cfg.SchemaURL != "http://example.invalid/schema.json" {
		t.Errorf("SchemaURL: got %q", cfg.SchemaURL)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: got %q", cfg.LogFormat)
	}
	if cfg.Sources["patterns"] != SourceFlag || cfg.Sources["log_format"] != SourceFlag {
		t.Errorf("flag sources not tracked: %v", cfg.Sources)
	}
	if cfg.Sources["offline"] != SourceDefault {
		t.Errorf("Sources[offline]: got %q, want default", cfg.Sources["offline"])
	}
	if got := fs.Args(); !reflect.DeepEqual(got, []string{"validate"}) {
		t.Errorf("remaining args: got %v", got)
	}
}

func TestLoadPriority(t *testing.T) {
	work := isolate(t)

	project := []byte(`schema_file = "project-schema.json"
log_level = "warn"
`)
	if err := os.WriteFile(filepath.Join(work, "mappingcheck.toml"), project, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MAPPINGCHECK_LOG_LEVEL", "error")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Load(fs, []string{"--log-level", "debug"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if want := filepath.Join(work, "project-schema.json"); cfg.SchemaFile != want {
		t.Errorf("SchemaFile: got %q, want %q", cfg.SchemaFile, want)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug (flag wins)", cfg.LogLevel)
	}
	if cfg.Sources["schema_file"] != SourceProjFile {
		t.Errorf("Sources[schema_file]: got %q", cfg.Sources["schema_file"])
	}
	if cfg.Sources["log_level"] != SourceFlag {
		t.Errorf("Sources[log_level]: got %q", cfg.Sources["log_level"])
	}
	if cfg.Dir != work {
		t.Errorf("Dir: got %q, want %q", cfg.Dir, work)
	}
}

func TestLoadUserConfig(t *testing.T) {
	isolate(t)
	home := os.Getenv("HOME")
	userDir := filepath.Join(home, ".mappingcheck")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "mappingcheck.toml"), []byte("log_prefix = \"PlexAniSync\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogPrefix != "PlexAniSync" {
		t.Errorf("LogPrefix: got %q, want PlexAniSync", cfg.LogPrefix)
	}
	if cfg.Sources["log_prefix"] != SourceUserFile {
		t.Errorf("Sources[log_prefix]: got %q", cfg.Sources["log_prefix"])
	}
}

func TestFinalizeConfigRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"no patterns", func(c *Config) { c.Patterns = nil }, "patterns"},
		{"bad pattern", func(c *Config) { c.Patterns = []string{"[a-"} }, "invalid pattern"},
		{"empty url online", func(c *Config) { c.SchemaURL = "" }, "schema_url"},
		{"empty schema file", func(c *Config) { c.SchemaFile = "" }, "schema_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			cfg.WorkDir = t.TempDir()
			tt.mutate(cfg)
			err := finalizeConfig(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestFinalizeConfigOfflineWithoutURL(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.WorkDir = t.TempDir()
	cfg.SchemaURL = ""
	cfg.Offline = true
	if err := finalizeConfig(cfg); err != nil {
		t.Fatalf("finalizeConfig: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MAPPINGCHECK_TEST_DIR", "/srv/mappings")

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"$MAPPINGCHECK_TEST_DIR/x.yaml", "/srv/mappings/x.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappingcheck.toml")
	if err := os.WriteFile(path, []byte(ExampleConfig()), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFile(cfg, path, SourceProjFile); err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
	if cfg.SchemaURL != DefaultSchemaURL {
		t.Errorf("SchemaURL: got %q", cfg.SchemaURL)
	}
}
