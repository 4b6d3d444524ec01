package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"WARN", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"nonsense", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormatter(t *testing.T) {
	if got := ParseFormatter("json"); got != log.JSONFormatter {
		t.Errorf("json: got %v", got)
	}
	if got := ParseFormatter("logfmt"); got != log.LogfmtFormatter {
		t.Errorf("logfmt: got %v", got)
	}
	if got := ParseFormatter("text"); got != log.TextFormatter {
		t.Errorf("text: got %v", got)
	}
	if got := ParseFormatter(""); got != log.TextFormatter {
		t.Errorf("empty: got %v", got)
	}
}

func TestNewConsoleLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, DefaultOptions())

	logger.Info("Custom Mappings validation successful for a.yaml")
	logger.Debug("hidden at info level")

	out := buf.String()
	if !strings.Contains(out, "Custom Mappings validation successful for a.yaml") {
		t.Errorf("missing message in %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
}

func TestNewConsoleLoggerFromConfigJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerFromConfig(&buf, "debug", "json", false, false, "PlexAniSync")

	logger.Error("validation failed", "path", "entries[1].title")

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if line["msg"] != "validation failed" {
		t.Errorf("msg: got %v", line["msg"])
	}
	if line["path"] != "entries[1].title" {
		t.Errorf("path: got %v", line["path"])
	}
	if line["prefix"] != "PlexAniSync" {
		t.Errorf("prefix: got %v", line["prefix"])
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("nothing to see")
	if logger.GetLevel() != log.FatalLevel {
		t.Errorf("level: got %v, want fatal", logger.GetLevel())
	}
}
