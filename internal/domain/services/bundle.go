package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/davrell/packsmith/internal/domain/entities"
)

// BundleService assembles and validates artifact bundles before publishing.
type BundleService struct{}

// NewBundleService creates a new bundle service
func NewBundleService() *BundleService {
	return &BundleService{}
}

// Assemble collects the executable and its sidecars into a named bundle.
func (s *BundleService) Assemble(name string, executable *entities.Artifact, sidecars *Sidecars) (*entities.Bundle, error) {
	if executable == nil || executable.Path == "" {
		return nil, fmt.Errorf("bundle %s: executable artifact is required", name)
	}

	bundle := &entities.Bundle{
		Name:      name,
		Artifacts: []entities.Artifact{*executable},
	}

	if sidecars != nil {
		for _, sc := range []struct {
			path, typ string
		}{
			{sidecars.SHA256Path, "checksum"},
			{sidecars.SHA512Path, "checksum"},
			{sidecars.ProvenancePath, "provenance"},
		} {
			if sc.path == "" {
				continue
			}
			bundle.Artifacts = append(bundle.Artifacts, entities.Artifact{
				Profile: executable.Profile,
				Path:    sc.path,
				Type:    sc.typ,
			})
		}
	}

	return bundle, nil
}

// Validate checks that the bundle is publishable: exactly one executable, and
// every listed file present on disk.
func (s *BundleService) Validate(bundle *entities.Bundle) error {
	if bundle.Name == "" {
		return fmt.Errorf("bundle must have a name")
	}

	executables := bundle.Executables()
	if len(executables) == 0 {
		return fmt.Errorf("bundle %s contains no executable", bundle.Name)
	}
	if len(executables) > 1 {
		names := make([]string, 0, len(executables))
		for _, e := range executables {
			names = append(names, filepath.Base(e.Path))
		}
		return fmt.Errorf("bundle %s contains %d executables, want exactly one: %v",
			bundle.Name, len(executables), names)
	}

	for _, a := range bundle.Artifacts {
		info, err := os.Stat(a.Path)
		if err != nil {
			return fmt.Errorf("bundle %s: artifact missing: %s", bundle.Name, a.Path)
		}
		if info.IsDir() {
			return fmt.Errorf("bundle %s: artifact is a directory: %s", bundle.Name, a.Path)
		}
	}

	return nil
}
