package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "veritas.log")
	logger, closer, err := New(path, "debug")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("scene rendered", "scene", "intro")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "scene=intro") {
		t.Errorf("log missing attribute: %q", data)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "veritas.log")
	logger, closer, err := New(path, "warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("quiet")
	logger.Warn("loud")
	closer.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "quiet") || !strings.Contains(string(data), "loud") {
		t.Errorf("unexpected log contents: %q", data)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, _, err := New("", "chatty"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewEmptyFileDiscards(t *testing.T) {
	logger, closer, err := New("", "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("nowhere")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
