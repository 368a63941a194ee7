// Package entities defines core domain models and data structures.
package entities

import (
	"fmt"
	"path/filepath"
	"strings"
)

// VenvDirName is the isolated environment directory created inside the
// profile's working directory.
const VenvDirName = ".venv"

// Profile describes one buildable application: where its source lives, how its
// dependencies are declared, and what artifact the build produces. A profile is
// immutable once loaded.
type Profile struct {
	Name         string
	Description  string
	Source       SourceConfig
	Dependencies DependencyConfig
	Entrypoint   string
	Output       OutputConfig
	Env          EnvConfig
	Publish      PublishConfig
}

// SourceConfig locates the application source tree.
type SourceConfig struct {
	WorkingDir string
}

// DependencyConfig describes how declared dependencies are installed.
type DependencyConfig struct {
	Manifest      string // manifest path, relative to the working directory
	Python        string // interpreter used to create the isolated environment
	PythonVersion string // advisory runtime version, recorded in provenance
}

// OutputConfig names the produced executable.
type OutputConfig struct {
	Dir  string // output directory, relative to the working directory
	Name string // output file name, e.g. "server.exe"
}

// EnvConfig describes the fallback environment file written before packaging
// so the packaged executable has usable settings absent a real deployment
// configuration.
type EnvConfig struct {
	Path   string // env file path, relative to the working directory
	Values map[string]string
}

// PublishConfig names the artifact bundle and its destination.
type PublishConfig struct {
	Bundle string
	Owner  string
	Repo   string
	Tag    string
}

// Validate checks that the profile carries everything a build needs.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile must have a name")
	}
	if p.Source.WorkingDir == "" {
		return fmt.Errorf("profile %s: working directory is required", p.Name)
	}
	if p.Dependencies.Manifest == "" {
		return fmt.Errorf("profile %s: dependency manifest is required", p.Name)
	}
	if p.Entrypoint == "" {
		return fmt.Errorf("profile %s: entry point is required", p.Name)
	}
	if p.Output.Name == "" {
		return fmt.Errorf("profile %s: output name is required", p.Name)
	}
	for key := range p.Env.Values {
		if key == "" {
			return fmt.Errorf("profile %s: env keys must be non-empty", p.Name)
		}
		if strings.ContainsAny(key, "=\n") {
			return fmt.Errorf("profile %s: env key %q contains reserved characters", p.Name, key)
		}
	}
	if len(p.Env.Values) > 0 && p.Env.Path == "" {
		return fmt.Errorf("profile %s: env values given but env path is empty", p.Name)
	}
	return nil
}

// Interpreter returns the configured Python interpreter, defaulting to python3.
func (p *Profile) Interpreter() string {
	if p.Dependencies.Python != "" {
		return p.Dependencies.Python
	}
	return "python3"
}

// ManifestPath returns the dependency manifest path rooted at the working directory.
func (p *Profile) ManifestPath() string {
	return filepath.Join(p.Source.WorkingDir, p.Dependencies.Manifest)
}

// EntrypointPath returns the entry point path rooted at the working directory.
func (p *Profile) EntrypointPath() string {
	return filepath.Join(p.Source.WorkingDir, p.Entrypoint)
}

// OutputDirPath returns the output directory rooted at the working directory.
func (p *Profile) OutputDirPath() string {
	dir := p.Output.Dir
	if dir == "" {
		dir = "dist"
	}
	return filepath.Join(p.Source.WorkingDir, dir)
}

// OutputPath returns the full path of the produced executable.
func (p *Profile) OutputPath() string {
	return filepath.Join(p.OutputDirPath(), p.Output.Name)
}

// EnvPath returns the fallback env file path rooted at the working directory.
func (p *Profile) EnvPath() string {
	return filepath.Join(p.Source.WorkingDir, p.Env.Path)
}

// VenvDir returns the isolated environment directory for this profile.
func (p *Profile) VenvDir() string {
	return filepath.Join(p.Source.WorkingDir, VenvDirName)
}

// BundleName returns the published bundle name, defaulting to the profile name.
func (p *Profile) BundleName() string {
	if p.Publish.Bundle != "" {
		return p.Publish.Bundle
	}
	return p.Name
}
