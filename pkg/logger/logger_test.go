package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestErrorfIncludesErrorField(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogrusLoggerWithWriter(&buf, "debug")

	log.Errorf(errors.New("boom"), "failed to %s", "fetch")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["msg"] != "failed to fetch" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if entry["error"] != "boom" {
		t.Fatalf("error = %v", entry["error"])
	}
	if entry["level"] != "error" {
		t.Fatalf("level = %v", entry["level"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogrusLoggerWithWriter(&buf, "warn")

	log.Debugf("hidden")
	log.Infof("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}

	log.Warnf("shown %d", 1)
	if !bytes.Contains(buf.Bytes(), []byte("shown 1")) {
		t.Fatalf("warn line missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"":        logrus.InfoLevel,
		"debug":   logrus.DebugLevel,
		" WARN ":  logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"bogus":   logrus.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
