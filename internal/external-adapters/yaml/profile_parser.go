// Package yaml provides YAML-based profile parsing and repository implementations.
package yaml

import (
	"fmt"
	"os"

	"github.com/davrell/packsmith/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlProfile represents the raw YAML structure
type yamlProfile struct {
	Name         string           `yaml:"name"`
	Description  string           `yaml:"description"`
	Source       yamlSource       `yaml:"source"`
	Dependencies yamlDependencies `yaml:"dependencies"`
	Entrypoint   string           `yaml:"entrypoint"`
	Output       yamlOutput       `yaml:"output"`
	Env          yamlEnv          `yaml:"env"`
	Publish      yamlPublish      `yaml:"publish"`
}

type yamlSource struct {
	WorkingDir string `yaml:"working_dir"`
}

type yamlDependencies struct {
	Manifest      string `yaml:"manifest"`
	Python        string `yaml:"python"`
	PythonVersion string `yaml:"python_version"`
}

type yamlOutput struct {
	Dir  string `yaml:"dir"`
	Name string `yaml:"name"`
}

type yamlEnv struct {
	Path   string            `yaml:"path"`
	Values map[string]string `yaml:"values"`
}

type yamlPublish struct {
	Bundle string `yaml:"bundle"`
	Owner  string `yaml:"owner"`
	Repo   string `yaml:"repo"`
	Tag    string `yaml:"tag"`
}

// ProfileParser parses YAML profile files
type ProfileParser struct{}

// NewProfileParser creates a new YAML parser
func NewProfileParser() *ProfileParser {
	return &ProfileParser{}
}

// ParseFile parses a YAML profile file into a Profile entity
func (p *ProfileParser) ParseFile(filePath string) (*entities.Profile, error) {
	//nolint:gosec // G304: filePath is a profile path from the repository
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses YAML bytes into a Profile entity
func (p *ProfileParser) Parse(data []byte) (*entities.Profile, error) {
	var raw yamlProfile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if raw.Name == "" {
		return nil, fmt.Errorf("profile must have a name")
	}

	profile := &entities.Profile{
		Name:        raw.Name,
		Description: raw.Description,
		Source: entities.SourceConfig{
			WorkingDir: raw.Source.WorkingDir,
		},
		Dependencies: entities.DependencyConfig{
			Manifest:      raw.Dependencies.Manifest,
			Python:        raw.Dependencies.Python,
			PythonVersion: raw.Dependencies.PythonVersion,
		},
		Entrypoint: raw.Entrypoint,
		Output: entities.OutputConfig{
			Dir:  raw.Output.Dir,
			Name: raw.Output.Name,
		},
		Env: entities.EnvConfig{
			Path:   raw.Env.Path,
			Values: raw.Env.Values,
		},
		Publish: entities.PublishConfig{
			Bundle: raw.Publish.Bundle,
			Owner:  raw.Publish.Owner,
			Repo:   raw.Publish.Repo,
			Tag:    raw.Publish.Tag,
		},
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}
