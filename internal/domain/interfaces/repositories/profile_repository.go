// Package repositories defines persistence contracts for the domain layer.
package repositories

import (
	"context"

	"github.com/davrell/packsmith/internal/domain/entities"
)

// ProfileRepository provides access to build profile definitions.
type ProfileRepository interface {
	// GetProfile retrieves a build profile by name
	GetProfile(ctx context.Context, name string) (*entities.Profile, error)

	// ListProfiles returns all available build profiles
	ListProfiles(ctx context.Context) ([]*entities.Profile, error)
}
