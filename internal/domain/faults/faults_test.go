package faults

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestInstallError_IncludesToolOutput(t *testing.T) {
	cause := errors.New("dependency install failed with exit code 1")
	err := &InstallError{
		Manifest: "backend/requirements.txt",
		Output:   "ERROR: No matching distribution found for fastapi==99.0\n",
		Err:      cause,
	}

	msg := err.Error()
	if !strings.Contains(msg, "backend/requirements.txt") {
		t.Errorf("Error() = %q, want manifest path", msg)
	}
	if !strings.Contains(msg, "No matching distribution found") {
		t.Errorf("Error() = %q, want verbatim tool output", msg)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is() should unwrap to cause")
	}
}

func TestInstallError_NoOutput(t *testing.T) {
	err := &InstallError{
		Manifest: "requirements.txt",
		Err:      errors.New("manifest not found"),
	}

	if strings.Contains(err.Error(), "\n") {
		t.Errorf("Error() = %q, empty output should not add a line", err.Error())
	}
}

func TestFilesystemError(t *testing.T) {
	cause := errors.New("permission denied")
	err := &FilesystemError{Op: "write", Path: "backend/.env", Err: cause}

	msg := err.Error()
	if !strings.Contains(msg, "write") || !strings.Contains(msg, "backend/.env") {
		t.Errorf("Error() = %q, want op and path", msg)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is() should unwrap to cause")
	}
}

func TestPackagingError_AsTarget(t *testing.T) {
	var wrapped error = fmt.Errorf("build step: %w", &PackagingError{
		Entrypoint: "backend/server.py",
		Err:        errors.New("entry point not found"),
	})

	var pkgErr *PackagingError
	if !errors.As(wrapped, &pkgErr) {
		t.Fatal("errors.As() should find PackagingError through wrapping")
	}
	if pkgErr.Entrypoint != "backend/server.py" {
		t.Errorf("Entrypoint = %q", pkgErr.Entrypoint)
	}
}

func TestUploadError_WithAndWithoutAsset(t *testing.T) {
	withAsset := &UploadError{Bundle: "Backend-EXE", Asset: "server.exe", Err: errors.New("status 502")}
	if !strings.Contains(withAsset.Error(), "server.exe") {
		t.Errorf("Error() = %q, want asset name", withAsset.Error())
	}

	withoutAsset := &UploadError{Bundle: "Backend-EXE", Err: errors.New("no release")}
	if strings.Contains(withoutAsset.Error(), "server.exe") {
		t.Errorf("Error() = %q, should not mention an asset", withoutAsset.Error())
	}
	if !strings.Contains(withoutAsset.Error(), "Backend-EXE") {
		t.Errorf("Error() = %q, want bundle name", withoutAsset.Error())
	}
}
