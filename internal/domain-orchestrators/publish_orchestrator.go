package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/davrell/packsmith/internal/domain/entities"
	"github.com/davrell/packsmith/internal/domain/faults"
	"github.com/davrell/packsmith/internal/domain/interfaces"
	"github.com/davrell/packsmith/internal/domain/interfaces/gateways"
)

// BundleValidator validates a bundle before publishing
type BundleValidator interface {
	Validate(bundle *entities.Bundle) error
}

// PublishOrchestrator uploads a validated artifact bundle to the artifact
// store. Any failure aborts the remaining uploads; no partial bundle is
// reported as published.
type PublishOrchestrator struct {
	store   gateways.ArtifactStore
	bundles BundleValidator
	log     interfaces.Logger
}

// NewPublishOrchestrator creates a new publish orchestrator
func NewPublishOrchestrator(store gateways.ArtifactStore, bundles BundleValidator, log interfaces.Logger) *PublishOrchestrator {
	if log == nil {
		log = &interfaces.NoOpLogger{}
	}
	return &PublishOrchestrator{store: store, bundles: bundles, log: log}
}

// PublishBundle uploads every artifact in the bundle to the release named by
// the profile's publish configuration.
func (o *PublishOrchestrator) PublishBundle(ctx context.Context, profile *entities.Profile, bundle *entities.Bundle) (*gateways.Release, error) {
	pub := profile.Publish
	if pub.Owner == "" || pub.Repo == "" || pub.Tag == "" {
		return nil, &faults.UploadError{
			Bundle: bundle.Name,
			Err:    errors.New("publish requires owner, repo and tag"),
		}
	}

	if err := o.bundles.Validate(bundle); err != nil {
		return nil, &faults.UploadError{Bundle: bundle.Name, Err: err}
	}

	release, err := o.store.EnsureRelease(ctx, pub.Owner, pub.Repo, &gateways.Release{
		TagName: pub.Tag,
		Name:    fmt.Sprintf("%s %s", bundle.Name, pub.Tag),
		Body:    fmt.Sprintf("Artifact bundle %s built by packsmith.", bundle.Name),
	})
	if err != nil {
		return nil, &faults.UploadError{Bundle: bundle.Name, Err: err}
	}

	o.log.Info("publishing bundle",
		interfaces.F("bundle", bundle.Name),
		interfaces.F("tag", pub.Tag),
		interfaces.F("artifacts", len(bundle.Artifacts)))

	for _, artifact := range bundle.Artifacts {
		name := filepath.Base(artifact.Path)
		if _, err := o.store.UploadAsset(ctx, pub.Owner, pub.Repo, release, artifact.Path, name); err != nil {
			return nil, &faults.UploadError{Bundle: bundle.Name, Asset: name, Err: err}
		}
		o.log.Info("asset uploaded", interfaces.F("asset", name))
	}

	return release, nil
}
