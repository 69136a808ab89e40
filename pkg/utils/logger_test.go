package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T, level LogLevel, format LogFormat) (*LauncherLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := NewLogger(&LoggerConfig{
		Level:  level,
		Format: format,
		Output: &buf,
	})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	return logger, &buf
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger, buf := newTestLogger(t, LogLevelWarn, LogFormatText)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("shown %s", "warning")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below level were logged: %q", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "shown warning") {
		t.Errorf("warning missing from output: %q", out)
	}
}

func TestLoggerWithFields(t *testing.T) {
	logger, buf := newTestLogger(t, LogLevelDebug, LogFormatText)

	logger.WithField("url", "https://example.com").WithField("attempt", 2).Info("downloading")

	out := buf.String()
	if !strings.Contains(out, "{attempt=2, url=https://example.com}") {
		t.Errorf("fields not rendered in sorted order: %q", out)
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	logger, buf := newTestLogger(t, LogLevelInfo, LogFormatJSON)

	logger.WithField("path", "/tmp/a.apk").Error("open failed")

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["level"] != "ERROR" || entry["message"] != "open failed" || entry["path"] != "/tmp/a.apk" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"INFO":    LogLevelInfo,
		" error ": LogLevelError,
		"warn":    LogLevelWarn,
		"bogus":   LogLevelWarn,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
