package console

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestConsoleLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(ConsoleLoggerParams{Format: "json", Output: &buf})

	l.Debug("hidden without debug")
	l.Info("stored entity", "id", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatalf("line is not json: %v", err)
	}
	if got["msg"] != "stored entity" || got["level"] != "info" || got["id"] != float64(7) {
		t.Errorf("entry = %v", got)
	}
	if _, ok := got["time"]; !ok {
		t.Errorf("entry has no timestamp: %v", got)
	}
}

func TestConsoleLoggerDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(ConsoleLoggerParams{Debug: true, Format: "logfmt", Output: &buf})

	l.Debug("chunk extracted", "chunk", 1)

	if out := buf.String(); !strings.Contains(out, "msg=\"chunk extracted\"") || !strings.Contains(out, "chunk=1") {
		t.Errorf("output = %q", out)
	}
}
