package gateways

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/davrell/packsmith/internal/domain/entities"
	"github.com/davrell/packsmith/internal/domain/faults"
)

// packagerWorkspace creates a working directory with an entry point and a stub
// packaging tool inside the isolated environment.
func packagerWorkspace(t *testing.T, toolScript string) *entities.Profile {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub tool scripts require a POSIX shell")
	}

	workDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(workDir, "server.py"), []byte("print('hi')\n"), 0600); err != nil {
		t.Fatalf("Failed to write entry point: %v", err)
	}

	toolDir := filepath.Join(workDir, entities.VenvDirName, "bin")
	if err := os.MkdirAll(toolDir, 0750); err != nil {
		t.Fatalf("Failed to create tool dir: %v", err)
	}
	//nolint:gosec // G306: stub must be executable
	if err := os.WriteFile(filepath.Join(toolDir, "pyinstaller"), []byte(toolScript), 0700); err != nil {
		t.Fatalf("Failed to write stub tool: %v", err)
	}

	return &entities.Profile{
		Name:         "backend",
		Source:       entities.SourceConfig{WorkingDir: workDir},
		Dependencies: entities.DependencyConfig{Manifest: "requirements.txt"},
		Entrypoint:   "server.py",
		Output:       entities.OutputConfig{Dir: "dist", Name: "server.exe"},
	}
}

// stubTool produces the named file under --distpath, imitating a packaging run.
const stubTool = `#!/bin/sh
name=""
dist=""
while [ $# -gt 0 ]; do
  case "$1" in
    --name) name="$2"; shift 2 ;;
    --distpath) dist="$2"; shift 2 ;;
    *) shift ;;
  esac
done
printf 'fake-binary' > "$dist/$name"
`

func TestExePackager_Package_Success(t *testing.T) {
	profile := packagerWorkspace(t, stubTool)

	packager := NewExePackager(NewCommandRunner(), nil)
	artifact, err := packager.Package(context.Background(), profile)
	if err != nil {
		t.Fatalf("Package() failed: %v", err)
	}

	if artifact.Path != profile.OutputPath() {
		t.Errorf("Path = %q, want %q", artifact.Path, profile.OutputPath())
	}
	if artifact.Type != "executable" {
		t.Errorf("Type = %q, want executable", artifact.Type)
	}
	if artifact.Size != int64(len("fake-binary")) {
		t.Errorf("Size = %d, want %d", artifact.Size, len("fake-binary"))
	}

	// The tool produced "server" and the packager must rename it to the
	// configured output name, leaving exactly one file behind.
	entries, err := os.ReadDir(profile.OutputDirPath())
	if err != nil {
		t.Fatalf("Failed to read output dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "server.exe" {
		t.Errorf("output dir entries = %v, want exactly server.exe", entries)
	}
}

func TestExePackager_Package_MissingEntrypoint(t *testing.T) {
	profile := packagerWorkspace(t, stubTool)
	profile.Entrypoint = "missing.py"

	packager := NewExePackager(NewCommandRunner(), nil)
	_, err := packager.Package(context.Background(), profile)
	if err == nil {
		t.Fatal("Package() should have failed for missing entry point")
	}

	var pkgErr *faults.PackagingError
	if !errors.As(err, &pkgErr) {
		t.Fatalf("Package() error = %T, want *faults.PackagingError", err)
	}
	if !strings.Contains(pkgErr.Error(), "entry point not found") {
		t.Errorf("Package() error = %q", pkgErr.Error())
	}

	// Failure must not leave an output file behind
	if _, statErr := os.Stat(profile.OutputPath()); statErr == nil {
		t.Error("output file should not exist after failure")
	}
}

func TestExePackager_Package_ToolFailure(t *testing.T) {
	profile := packagerWorkspace(t, `#!/bin/sh
echo "ModuleNotFoundError: No module named 'motor'" >&2
exit 1
`)

	packager := NewExePackager(NewCommandRunner(), nil)
	_, err := packager.Package(context.Background(), profile)
	if err == nil {
		t.Fatal("Package() should have failed for tool error")
	}

	var pkgErr *faults.PackagingError
	if !errors.As(err, &pkgErr) {
		t.Fatalf("Package() error = %T, want *faults.PackagingError", err)
	}
	if !strings.Contains(pkgErr.Output, "ModuleNotFoundError") {
		t.Errorf("Output = %q, want verbatim tool stderr", pkgErr.Output)
	}

	if _, statErr := os.Stat(profile.OutputPath()); statErr == nil {
		t.Error("output file should not exist after failure")
	}
}

func TestExePackager_Package_UnexpectedFile(t *testing.T) {
	profile := packagerWorkspace(t, stubTool+`printf 'junk' > "$dist/leftover.txt"
`)

	packager := NewExePackager(NewCommandRunner(), nil)
	_, err := packager.Package(context.Background(), profile)
	if err == nil {
		t.Fatal("Package() should have failed for unexpected output file")
	}
	if !strings.Contains(err.Error(), "unexpected file") {
		t.Errorf("Package() error = %q, want unexpected file", err.Error())
	}
}

func TestExePackager_Package_ClearsStaleSidecars(t *testing.T) {
	profile := packagerWorkspace(t, stubTool)

	// Leave a previous build behind: executable plus its sidecars
	distDir := profile.OutputDirPath()
	if err := os.MkdirAll(distDir, 0750); err != nil {
		t.Fatalf("Failed to create dist dir: %v", err)
	}
	stale := []string{
		"server.exe",
		"server.exe.sha256",
		"server.exe.sha512",
		"server.exe.provenance.json",
	}
	for _, name := range stale {
		if err := os.WriteFile(filepath.Join(distDir, name), []byte("old"), 0600); err != nil {
			t.Fatalf("Failed to write stale file %s: %v", name, err)
		}
	}

	packager := NewExePackager(NewCommandRunner(), nil)
	artifact, err := packager.Package(context.Background(), profile)
	if err != nil {
		t.Fatalf("Package() failed on rebuild: %v", err)
	}

	// The rebuild replaces the executable and removes the old sidecars
	entries, err := os.ReadDir(distDir)
	if err != nil {
		t.Fatalf("Failed to read output dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "server.exe" {
		t.Errorf("output dir entries = %v, want exactly server.exe", entries)
	}

	data, err := os.ReadFile(artifact.Path)
	if err != nil {
		t.Fatalf("Failed to read artifact: %v", err)
	}
	if string(data) != "fake-binary" {
		t.Errorf("artifact content = %q, want the freshly packaged binary", data)
	}
}

func TestOutputStem(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"server.exe", "server"},
		{"server", "server"},
		{"api.bin", "api"},
	}
	for _, tt := range tests {
		if got := outputStem(tt.name); got != tt.want {
			t.Errorf("outputStem(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
