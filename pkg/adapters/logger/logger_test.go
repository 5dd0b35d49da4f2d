package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/user/mpvplay/pkg/ports"
)

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleWriter(ports.LevelWarn, &buf)

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below warn should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("expected warn and error output:\n%s", out)
	}
}

func TestConsoleLogger_ComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleWriter(ports.LevelDebug, &buf).
		WithComponent("engine").
		WithFields(ports.Fields{"url": "http://host/live.ts"}).
		WithFields(ports.Fields{"code": -13})

	log.Error("Playback failed: %s", "loading failed")

	line := strings.TrimSpace(buf.String())
	want := "[engine] Playback failed: loading failed code=-13 url=http://host/live.ts"
	if line != want {
		t.Errorf("got %q, want %q", line, want)
	}
}

func TestConsoleLogger_FieldsDoNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := NewConsoleWriter(ports.LevelDebug, &buf)
	_ = base.WithFields(ports.Fields{"a": 1})

	base.Info("plain")
	if strings.Contains(buf.String(), "a=1") {
		t.Errorf("parent logger must not get child fields: %q", buf.String())
	}
}

func TestZerologLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSON(JSONConfig{Level: ports.LevelInfo, Output: &buf, Version: "test"})

	log.Debug("hidden")
	log.WithComponent("recovery").WithFields(ports.Fields{"kind": "playback", "code": -13}).Warn("Attempt %d failed: %s", 1, "boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry["level"] != "warn" {
		t.Errorf("level = %v", entry["level"])
	}
	if entry["message"] != "Attempt 1 failed: boom" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["component"] != "recovery" || entry["kind"] != "playback" || entry["code"] != float64(-13) {
		t.Errorf("missing structured fields: %v", entry)
	}
	if entry["service"] != "mpvplay" || entry["version"] != "test" {
		t.Errorf("missing service fields: %v", entry)
	}
}

func TestZerologLogger_Quiet(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSON(JSONConfig{Level: ports.LevelQuiet, Output: &buf})
	log.Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("quiet logger wrote %q", buf.String())
	}
}

func TestNoopLogger(t *testing.T) {
	log := NewNoop()
	if log.WithComponent("x") != log || log.WithFields(ports.Fields{"a": 1}) != log {
		t.Error("noop logger should return itself")
	}
}
