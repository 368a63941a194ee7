package gateways

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/davrell/packsmith/internal/domain/entities"
	"github.com/davrell/packsmith/internal/domain/faults"
	"github.com/davrell/packsmith/internal/domain/interfaces"
)

// DepInstaller installs a profile's declared dependencies into an isolated
// environment under the working directory.
type DepInstaller struct {
	runner *CommandRunner
	log    interfaces.Logger
}

// NewDepInstaller creates a new dependency installer
func NewDepInstaller(runner *CommandRunner, log interfaces.Logger) *DepInstaller {
	if log == nil {
		log = &interfaces.NoOpLogger{}
	}
	return &DepInstaller{runner: runner, log: log}
}

// Install creates (or recreates) the isolated environment and installs every
// dependency declared in the profile's manifest. Failures carry the installer
// tool's stderr verbatim. No retries: transient failures surface immediately.
func (i *DepInstaller) Install(ctx context.Context, profile *entities.Profile) error {
	manifestPath := profile.ManifestPath()
	if _, err := os.Stat(manifestPath); err != nil {
		return &faults.InstallError{
			Manifest: manifestPath,
			Err:      fmt.Errorf("manifest not found: %w", err),
		}
	}

	i.log.Info("creating isolated environment",
		interfaces.F("profile", profile.Name),
		interfaces.F("dir", profile.VenvDir()))

	// --clear recreates an existing environment so repeated runs converge
	result := i.runner.Run(ctx, RunConfig{
		Path:        profile.Interpreter(),
		Args:        []string{"-m", "venv", "--clear", entities.VenvDirName},
		WorkingDir:  profile.Source.WorkingDir,
		Description: "create isolated environment",
	})
	if !result.Success {
		return &faults.InstallError{
			Manifest: manifestPath,
			Output:   result.Stderr,
			Err:      runErr(result, "environment creation"),
		}
	}

	i.log.Info("installing dependencies", interfaces.F("manifest", manifestPath))

	result = i.runner.Run(ctx, RunConfig{
		Path:       VenvTool(profile.VenvDir(), "pip"),
		Args:       []string{"install", "-r", profile.Dependencies.Manifest},
		WorkingDir: profile.Source.WorkingDir,
		Env: map[string]string{
			"PIP_DISABLE_PIP_VERSION_CHECK": "1",
			"PIP_NO_INPUT":                  "1",
		},
		Description: "install dependencies",
	})
	if !result.Success {
		return &faults.InstallError{
			Manifest: manifestPath,
			Output:   result.Stderr,
			Err:      runErr(result, "dependency install"),
		}
	}

	i.log.Info("dependencies installed", interfaces.F("duration", result.Duration))
	return nil
}

// VenvTool returns the path of a tool inside an isolated environment.
func VenvTool(venvDir, name string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvDir, "Scripts", name+".exe")
	}
	return filepath.Join(venvDir, "bin", name)
}

func runErr(result *RunResult, step string) error {
	if result.Err != nil {
		return fmt.Errorf("%s failed: %w", step, result.Err)
	}
	return fmt.Errorf("%s failed with exit code %d", step, result.ExitCode)
}
