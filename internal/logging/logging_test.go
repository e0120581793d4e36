package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetup_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "promptdeck.log")
	logger, closeFn, err := Setup(Options{Path: path, Level: "debug"})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	logger.Error().Str("source", "faculty").Msg("source degraded")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, data)
	}
	if line["level"] != "error" || line["source"] != "faculty" || line["message"] != "source degraded" {
		t.Fatalf("unexpected line: %#v", line)
	}
	if _, ok := line["time"]; !ok {
		t.Fatalf("missing time field: %#v", line)
	}
}

func TestSetup_ConsoleAndLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := Setup(Options{Console: &buf, Level: "WARN"})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("console output = %q", out)
	}
}

func TestSetup_Errors(t *testing.T) {
	if _, _, err := Setup(Options{Level: "loud", Console: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, _, err := Setup(Options{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestParseLevel_DefaultsToInfo(t *testing.T) {
	level, err := ParseLevel("  ")
	if err != nil || level != zerolog.InfoLevel {
		t.Fatalf("ParseLevel(\"\") = %v, %v", level, err)
	}
}
