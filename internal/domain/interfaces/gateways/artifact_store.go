// Package gateways defines contracts for external systems the domain depends on.
package gateways

import "context"

// Release represents a release in the remote artifact store.
type Release struct {
	ID         int64
	TagName    string
	Name       string
	Body       string
	Draft      bool
	Prerelease bool
	HTMLURL    string
	UploadURL  string
}

// Asset represents a single uploaded artifact file.
type Asset struct {
	ID                 int64
	Name               string
	Size               int64
	BrowserDownloadURL string
}

// ArtifactStore publishes build artifacts to a remote store so they are
// retrievable after the run completes.
type ArtifactStore interface {
	// EnsureRelease returns the release for the tag, creating it if absent
	EnsureRelease(ctx context.Context, owner, repo string, release *Release) (*Release, error)

	// UploadAsset uploads a file as a named asset, replacing any asset with
	// the same name
	UploadAsset(ctx context.Context, owner, repo string, release *Release, filePath, name string) (*Asset, error)

	// ListAssets lists the assets already attached to a release
	ListAssets(ctx context.Context, owner, repo string, releaseID int64) ([]Asset, error)
}
