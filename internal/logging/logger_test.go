package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("dropped")
	logger.Warn("kept", "port", "Auckland")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "kept") || !strings.Contains(out, "port=Auckland") {
		t.Errorf("warn message missing or without fields: %q", out)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "loud"); err == nil {
		t.Error("New() with an unknown level should fail")
	}
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()

	logger, closer, err := OpenFile(dir, "debug")
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	logger.Debug("hello file")
	closer.Close()

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one log file, got %v (err %v)", entries, err)
	}
	if !strings.HasPrefix(entries[0].Name(), "nz-tides-") {
		t.Errorf("log file name = %q", entries[0].Name())
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic
	Discard().Error("nothing to see")
}
