package gateways

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davrell/packsmith/internal/domain/entities"
	"github.com/davrell/packsmith/internal/domain/faults"
	"github.com/davrell/packsmith/internal/domain/interfaces"
)

// ExePackager bundles an entry point and its resolved dependencies into a
// single-file executable using PyInstaller.
type ExePackager struct {
	runner *CommandRunner
	log    interfaces.Logger
}

// NewExePackager creates a new executable packager
func NewExePackager(runner *CommandRunner, log interfaces.Logger) *ExePackager {
	if log == nil {
		log = &interfaces.NoOpLogger{}
	}
	return &ExePackager{runner: runner, log: log}
}

// Package produces the single-file executable at the profile's output path.
// On success exactly one regular file exists under the output directory; on
// failure no new file is left behind.
func (p *ExePackager) Package(ctx context.Context, profile *entities.Profile) (*entities.Artifact, error) {
	entrypoint := profile.EntrypointPath()
	if _, err := os.Stat(entrypoint); err != nil {
		return nil, &faults.PackagingError{
			Entrypoint: entrypoint,
			Err:        fmt.Errorf("entry point not found: %w", err),
		}
	}

	outputDir := profile.OutputDirPath()
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return nil, &faults.PackagingError{
			Entrypoint: entrypoint,
			Err:        fmt.Errorf("failed to create output directory: %w", err),
		}
	}

	scratch, err := os.MkdirTemp("", "packsmith-build-*")
	if err != nil {
		return nil, &faults.PackagingError{
			Entrypoint: entrypoint,
			Err:        fmt.Errorf("failed to create scratch directory: %w", err),
		}
	}
	//nolint:errcheck // Best effort scratch cleanup
	defer os.RemoveAll(scratch)

	// The tool appends the platform suffix itself, so pass the stem and
	// normalize the produced file name afterwards.
	stem := outputStem(profile.Output.Name)

	p.log.Info("packaging executable",
		interfaces.F("entrypoint", entrypoint),
		interfaces.F("output", profile.OutputPath()))

	result := p.runner.Run(ctx, RunConfig{
		Path: p.packagerTool(profile),
		Args: []string{
			"--onefile",
			"--name", stem,
			"--distpath", outputDir,
			"--workpath", scratch,
			"--specpath", scratch,
			"--log-level", "WARN",
			profile.Entrypoint,
		},
		WorkingDir:  profile.Source.WorkingDir,
		Description: "package executable",
	})
	if !result.Success {
		return nil, &faults.PackagingError{
			Entrypoint: entrypoint,
			Output:     result.Stderr,
			Err:        runErr(result, "packaging"),
		}
	}

	outputPath, err := p.normalizeOutput(outputDir, stem, profile.Output.Name)
	if err != nil {
		return nil, &faults.PackagingError{Entrypoint: entrypoint, Err: err}
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return nil, &faults.PackagingError{
			Entrypoint: entrypoint,
			Err:        fmt.Errorf("packaged executable missing: %w", err),
		}
	}

	p.log.Info("executable packaged",
		interfaces.F("path", outputPath),
		interfaces.F("size", info.Size()))

	return &entities.Artifact{
		Profile: profile.Name,
		Path:    outputPath,
		Size:    info.Size(),
		Type:    "executable",
	}, nil
}

// packagerTool prefers the isolated environment's tool and falls back to PATH.
func (p *ExePackager) packagerTool(profile *entities.Profile) string {
	tool := VenvTool(profile.VenvDir(), "pyinstaller")
	if _, err := os.Stat(tool); err == nil {
		return tool
	}
	return "pyinstaller"
}

// sidecarExts are the sidecar files a previous build may have left next to
// the executable. They are regenerated after packaging, so a rebuild clears
// them instead of treating them as foreign files.
var sidecarExts = []string{".sha256", ".sha512", ".provenance.json", ".asc"}

// normalizeOutput renames the produced file to the configured output name,
// clears stale sidecars from the previous build, and verifies the output
// directory holds exactly the one executable.
func (p *ExePackager) normalizeOutput(outputDir, stem, wantName string) (string, error) {
	wantPath := filepath.Join(outputDir, wantName)

	for _, candidate := range []string{stem, stem + ".exe"} {
		if candidate == wantName {
			continue
		}
		produced := filepath.Join(outputDir, candidate)
		if _, err := os.Stat(produced); err == nil {
			if err := os.Rename(produced, wantPath); err != nil {
				return "", fmt.Errorf("failed to rename packaged executable: %w", err)
			}
			break
		}
	}

	for _, ext := range sidecarExts {
		stale := wantPath + ext
		if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to clear stale sidecar %s: %w", stale, err)
		}
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", fmt.Errorf("failed to read output directory: %w", err)
	}
	for _, entry := range entries {
		if entry.Name() != wantName {
			return "", fmt.Errorf("unexpected file in output directory: %s", entry.Name())
		}
	}
	return wantPath, nil
}

func outputStem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
