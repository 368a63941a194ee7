package gateways

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/davrell/packsmith/internal/domain/faults"
)

func TestEnvWriter_Write_SingleEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	writer := NewEnvWriter()
	err := writer.Write(path, map[string]string{
		"MONGO_URL": "mongodb://localhost:27017/sales_dashboard",
	})
	if err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read env file: %v", err)
	}

	want := "MONGO_URL=mongodb://localhost:27017/sales_dashboard\n"
	if string(data) != want {
		t.Errorf("env file = %q, want %q", data, want)
	}
}

func TestEnvWriter_Write_SortedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	writer := NewEnvWriter()
	err := writer.Write(path, map[string]string{
		"ZED":   "last",
		"ALPHA": "first",
		"MID":   "middle",
	})
	if err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read env file: %v", err)
	}

	want := "ALPHA=first\nMID=middle\nZED=last\n"
	if string(data) != want {
		t.Errorf("env file = %q, want deterministic sorted order %q", data, want)
	}
}

func TestEnvWriter_Write_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("STALE=old\n"), 0600); err != nil {
		t.Fatalf("Failed to seed env file: %v", err)
	}

	writer := NewEnvWriter()
	if err := writer.Write(path, map[string]string{"FRESH": "new"}); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read env file: %v", err)
	}
	if string(data) != "FRESH=new\n" {
		t.Errorf("env file = %q, existing content should be replaced", data)
	}
}

func TestEnvWriter_Write_InvalidKey(t *testing.T) {
	writer := NewEnvWriter()
	err := writer.Write(filepath.Join(t.TempDir(), ".env"), map[string]string{"BAD=KEY": "v"})
	if err == nil {
		t.Fatal("Write() should have failed for key containing =")
	}

	var fsErr *faults.FilesystemError
	if !errors.As(err, &fsErr) {
		t.Fatalf("Write() error = %T, want *faults.FilesystemError", err)
	}
	if fsErr.Op != "write" {
		t.Errorf("Op = %q, want write", fsErr.Op)
	}
}

func TestEnvWriter_Write_UnwritablePath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits work differently on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("running as root, directory permissions are not enforced")
	}

	dir := t.TempDir()
	if err := os.Chmod(dir, 0500); err != nil {
		t.Fatalf("Failed to chmod: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chmod(dir, 0700)
	})

	writer := NewEnvWriter()
	err := writer.Write(filepath.Join(dir, ".env"), map[string]string{"KEY": "v"})
	if err == nil {
		t.Fatal("Write() should have failed for read-only directory")
	}

	var fsErr *faults.FilesystemError
	if !errors.As(err, &fsErr) {
		t.Fatalf("Write() error = %T, want *faults.FilesystemError", err)
	}
}

func TestEnvWriter_Read_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	values := map[string]string{
		"MONGO_URL": "mongodb://localhost:27017/sales_dashboard",
		"PORT":      "8001",
	}

	writer := NewEnvWriter()
	if err := writer.Write(path, values); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	got, err := writer.Read(path)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}

	if len(got) != len(values) {
		t.Fatalf("Read() returned %d entries, want %d", len(got), len(values))
	}
	for key, want := range values {
		if got[key] != want {
			t.Errorf("Read()[%q] = %q, want %q", key, got[key], want)
		}
	}
}

func TestEnvWriter_Read_ValueWithEquals(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CONN=host=localhost;db=x\n"), 0600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	got, err := NewEnvWriter().Read(path)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if got["CONN"] != "host=localhost;db=x" {
		t.Errorf("Read()[CONN] = %q, value should split on first = only", got["CONN"])
	}
}

func TestEnvWriter_Read_MalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("no-separator-here\n"), 0600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	_, err := NewEnvWriter().Read(path)
	if err == nil {
		t.Fatal("Read() should have failed for malformed line")
	}

	var fsErr *faults.FilesystemError
	if !errors.As(err, &fsErr) {
		t.Fatalf("Read() error = %T, want *faults.FilesystemError", err)
	}
}
