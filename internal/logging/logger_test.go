package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/i474232898/arpav-bridge/internal/config"
)

func TestProdLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.AppConfig{AppEnv: "prod", LogLevel: slog.LevelInfo}, "1.2.3", "arpav-bridge")

	logger.Debug("hidden")
	logger.Info("bulletin served", "hour", 9)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "bulletin served" || entry["app"] != "arpav-bridge" || entry["version"] != "1.2.3" {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["hour"] != float64(9) {
		t.Errorf("expected hour 9, got %v", entry["hour"])
	}
}

func TestDevLoggerIsHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.AppConfig{AppEnv: "dev", LogLevel: slog.LevelDebug}, "dev", "arpav-bridge")

	logger.Debug("bulletin not published yet", "hour", 9)

	out := buf.String()
	if !strings.Contains(out, "bulletin not published yet") || !strings.Contains(out, "hour") {
		t.Errorf("unexpected output %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("expected text output, got %q", out)
	}
}
