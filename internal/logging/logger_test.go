package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelWarn, Output: &buf})

	logger.Debug("should not appear")
	logger.Info("should not appear either")
	logger.Warn("danger", "code", "ProtocolViolation")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatalf("expected debug/info suppressed below warn level, got %q", out)
	}
	if !strings.Contains(out, "danger") || !strings.Contains(out, "ProtocolViolation") {
		t.Fatalf("expected warn message and fields in output, got %q", out)
	}
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	client := logger.With("client", "c-1")
	client.Info("accepted")

	out := buf.String()
	if !strings.Contains(out, "client=c-1") || !strings.Contains(out, "accepted") {
		t.Errorf("expected client=c-1 and accepted in output, got %q", out)
	}
}

func TestDefaultLoggerIsSingleton(t *testing.T) {
	first := Default()
	second := Default()
	if first != second {
		t.Fatal("Default() should return the same logger instance across calls")
	}
}

func TestSetDefaultReplacesSingleton(t *testing.T) {
	var buf bytes.Buffer
	custom := NewLogger(&Config{Level: LevelDebug, Output: &buf})
	SetDefault(custom)
	defer SetDefault(NewLogger(nil))

	Info("hello", "n", 1)
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected SetDefault to redirect package-level Info, got %q", buf.String())
	}
}
