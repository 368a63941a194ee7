// Package services implements domain logic that does not touch external systems.
package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/davrell/packsmith/internal/domain/entities"
)

// constraint operators in match order; two-character operators first so that
// ">=" is not split as ">" + "="
var constraintOps = []string{"==", ">=", "<=", "~=", "!=", "<", ">"}

// ManifestService parses pip-style dependency manifests.
type ManifestService struct{}

// NewManifestService creates a new manifest service
func NewManifestService() *ManifestService {
	return &ManifestService{}
}

// ParseFile reads and parses a dependency manifest from disk.
func (s *ManifestService) ParseFile(path string) (*entities.Manifest, error) {
	//nolint:gosec // G304: path comes from the build profile
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return s.Parse(path, data)
}

// Parse parses manifest bytes into a Manifest entity. Blank lines and comments
// are skipped; directives (-r, -e, --hash and friends) are rejected because the
// pipeline expects a flat list of pinned dependencies.
func (s *ManifestService) Parse(path string, data []byte) (*entities.Manifest, error) {
	manifest := &entities.Manifest{Path: path}

	for i, rawLine := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "-") {
			return nil, fmt.Errorf("manifest %s line %d: unsupported directive %q", path, i+1, line)
		}

		dep, err := parseDependency(line)
		if err != nil {
			return nil, fmt.Errorf("manifest %s line %d: %w", path, i+1, err)
		}
		manifest.Dependencies = append(manifest.Dependencies, dep)
	}

	return manifest, nil
}

func parseDependency(line string) (entities.Dependency, error) {
	dep := entities.Dependency{Raw: line}

	// Strip inline comments and environment markers
	spec := line
	if idx := strings.Index(spec, "#"); idx >= 0 {
		spec = spec[:idx]
	}
	if idx := strings.Index(spec, ";"); idx >= 0 {
		spec = spec[:idx]
	}
	spec = strings.TrimSpace(spec)

	name := spec
	for _, op := range constraintOps {
		if idx := strings.Index(spec, op); idx >= 0 {
			name = strings.TrimSpace(spec[:idx])
			dep.Constraint = strings.TrimSpace(spec[idx:])
			break
		}
	}

	// Drop any extras suffix: package[extra1,extra2]
	if idx := strings.Index(name, "["); idx >= 0 {
		name = name[:idx]
	}

	if name == "" {
		return dep, fmt.Errorf("dependency name is empty in %q", line)
	}
	dep.Name = name
	return dep, nil
}
