package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %q, expected %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warning", LevelWarn},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}

	if ValidLevel("bogus") {
		t.Error("expected bogus to be invalid")
	}
	if !ValidLevel("Warn") {
		t.Error("expected Warn to be valid")
	}
}

func TestLogger_Filtering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Output: &buf, Prefix: "test"})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn %d", 1)
	logger.Error("error %s", "two")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("expected debug and info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARN] test: warn 1") {
		t.Errorf("expected formatted warning, got %q", out)
	}
	if !strings.Contains(out, "[ERROR] test: error two") {
		t.Errorf("expected formatted error, got %q", out)
	}
}

func TestLogger_FieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Output: &buf})

	logger.WithComponent("pipeline").WithFields(map[string]any{
		"exit": 1,
		"args": 3,
	}).Info("done")

	if !strings.Contains(buf.String(), "{args=3, component=pipeline, exit=1}") {
		t.Errorf("expected sorted fields, got %q", buf.String())
	}
}

func TestLogger_DerivedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := New(Config{Level: LevelInfo, Output: &buf})
	child := parent.WithComponent("gate")

	parent.SetLevel(LevelDebug)
	child.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Error("expected derived logger to follow parent level")
	}
	if child.Level() != LevelDebug {
		t.Errorf("expected LevelDebug, got %v", child.Level())
	}
}

func TestNop(t *testing.T) {
	var buf bytes.Buffer
	logger := Nop()
	logger.SetOutput(&buf)
	logger.Error("dropped")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}

	var nilLogger *Logger
	nilLogger.Info("must not panic")
}
