package zaplog

import (
	"testing"

	"github.com/davrell/packsmith/internal/domain/interfaces"
)

func TestNew(t *testing.T) {
	logger, err := New(false)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if logger == nil {
		t.Fatal("New() returned nil logger")
	}

	verbose, err := New(true)
	if err != nil {
		t.Fatalf("New(verbose) failed: %v", err)
	}
	if verbose == nil {
		t.Fatal("New(verbose) returned nil logger")
	}
}

func TestLogger_ImplementsContract(t *testing.T) {
	var _ interfaces.Logger = NewNop()
}

func TestNewNop_AllLevels(t *testing.T) {
	logger := NewNop()

	// Must not panic at any level, with or without fields
	logger.Debug("debug message")
	logger.Info("info message", interfaces.F("key", "value"))
	logger.Warn("warn message", interfaces.F("count", 3))
	logger.Error("error message", interfaces.F("err", "boom"), interfaces.F("path", "/tmp/x"))

	if err := logger.Sync(); err != nil {
		t.Errorf("Sync() failed: %v", err)
	}
}
