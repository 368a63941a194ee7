package yaml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davrell/packsmith/internal/domain/entities"
)

// ProfileRepository implements repositories.ProfileRepository using YAML files
type ProfileRepository struct {
	profilesDir string
	parser      *ProfileParser
}

// NewProfileRepository creates a new YAML-based profile repository
func NewProfileRepository(profilesDir string) *ProfileRepository {
	return &ProfileRepository{
		profilesDir: profilesDir,
		parser:      NewProfileParser(),
	}
}

// GetProfile retrieves a build profile by name
func (r *ProfileRepository) GetProfile(_ context.Context, name string) (*entities.Profile, error) {
	filePath := filepath.Join(r.profilesDir, name+".yml")

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("profile not found: %s", name)
	}

	return r.parser.ParseFile(filePath)
}

// ListProfiles returns all available build profiles
func (r *ProfileRepository) ListProfiles(_ context.Context) ([]*entities.Profile, error) {
	entries, err := os.ReadDir(r.profilesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles directory: %w", err)
	}

	profiles := make([]*entities.Profile, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yml") {
			continue
		}

		filePath := filepath.Join(r.profilesDir, entry.Name())
		profile, err := r.parser.ParseFile(filePath)
		if err != nil {
			// Log warning but continue processing other files
			fmt.Fprintf(os.Stderr, "Warning: failed to parse %s: %v\n", entry.Name(), err)
			continue
		}

		profiles = append(profiles, profile)
	}

	return profiles, nil
}
