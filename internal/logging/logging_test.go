package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewWriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(&buf, "warn")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown")
	_ = log.Sync()
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info entry leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "shown") {
		t.Fatalf("missing warn entry: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	if err != nil || lvl != zapcore.InfoLevel {
		t.Fatalf("empty level = %v, %v", lvl, err)
	}
	lvl, err = ParseLevel(" DEBUG ")
	if err != nil || lvl != zapcore.DebugLevel {
		t.Fatalf("debug level = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
