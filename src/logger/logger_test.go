package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestStructuredLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLogger(&buf, "info", "text")

	log.Debug("hidden %d", 1)
	log.Info("selected run %s", "#12")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record should be filtered at info level, got %q", out)
	}
	if !strings.Contains(out, "selected run #12") {
		t.Errorf("output should contain formatted message, got %q", out)
	}
	if !strings.Contains(out, "level=INFO") {
		t.Errorf("output should contain level, got %q", out)
	}
}

func TestStructuredLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLogger(&buf, "debug", "JSON").With("request_id", "req-1")

	log.Error("listing runs failed: %v", "timeout")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if record["msg"] != "listing runs failed: timeout" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", record["level"])
	}
	if record["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", record["request_id"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"info":  "INFO",
		"WARN":  "WARN",
		"error": "ERROR",
		"":      "DEBUG",
		"bogus": "DEBUG",
	}
	for in, want := range tests {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestFromConfig(t *testing.T) {
	if _, ok := FromConfig("info", "").(*ConsoleLogger); !ok {
		t.Error("FromConfig without format should return *ConsoleLogger")
	}
	if _, ok := FromConfig("info", "json").(*StructuredLogger); !ok {
		t.Error("FromConfig with format should return *StructuredLogger")
	}
}
