// Package main provides the packsmith CLI for building and publishing
// single-file executables.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/davrell/packsmith/internal/domain/entities"
	"github.com/davrell/packsmith/internal/domain/interfaces"
	"github.com/davrell/packsmith/internal/external-adapters/yaml"
	"github.com/davrell/packsmith/internal/external-adapters/zaplog"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "build":
		runBuild(ctx, os.Args[2:])
	case "deps":
		runDeps(ctx, os.Args[2:])
	case "env":
		runEnv(ctx, os.Args[2:])
	case "package":
		runPackage(ctx, os.Args[2:])
	case "publish":
		runPublish(ctx, os.Args[2:])
	case "profiles":
		runProfiles(ctx, os.Args[2:])
	case "verify":
		runVerify(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`packsmith - Standalone executable builder and artifact publisher

Usage:
  packsmith <command> [options]

Commands:
  build     Run the full pipeline: install, fallback env, package, sidecars
  deps      Install declared dependencies into the isolated environment
  env       Write (or show) the fallback environment file
  package   Package the entry point into a single-file executable
  publish   Upload a built bundle to the artifact store
  profiles  List available build profiles
  verify    Verify checksums and signatures of a published artifact

Use "packsmith <command> --help" for more information about a command.`)
}

// loadProfile resolves a profile by name. When the default profile is
// requested but no profile file exists, the built-in backend profile is used
// so the tool works out of the box against the conventional layout.
func loadProfile(ctx context.Context, profilesDir, name string) (*entities.Profile, error) {
	repo := yaml.NewProfileRepository(profilesDir)
	profile, err := repo.GetProfile(ctx, name)
	if err != nil {
		if name == defaultProfileName {
			return defaultProfile(), nil
		}
		return nil, err
	}
	return profile, nil
}

const defaultProfileName = "backend"

// defaultProfile mirrors the conventional backend layout: pip manifest,
// server.py entry point, dist/server.exe output, MONGO_URL fallback.
func defaultProfile() *entities.Profile {
	return &entities.Profile{
		Name:        defaultProfileName,
		Description: "Conventional backend build",
		Source:      entities.SourceConfig{WorkingDir: "backend"},
		Dependencies: entities.DependencyConfig{
			Manifest:      "requirements.txt",
			PythonVersion: "3.11",
		},
		Entrypoint: "server.py",
		Output:     entities.OutputConfig{Dir: "dist", Name: "server.exe"},
		Env: entities.EnvConfig{
			Path: ".env",
			Values: map[string]string{
				"MONGO_URL": "mongodb://localhost:27017/sales_dashboard",
			},
		},
		Publish: entities.PublishConfig{Bundle: "Backend-EXE"},
	}
}

func newLogger(verbose bool) interfaces.Logger {
	logger, err := zaplog.New(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
		return &interfaces.NoOpLogger{}
	}
	return logger
}
