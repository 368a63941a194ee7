// Package orchestrators coordinates the linear build and publish pipelines.
package orchestrators

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/davrell/packsmith/internal/domain/entities"
	"github.com/davrell/packsmith/internal/domain/interfaces"
	"github.com/davrell/packsmith/internal/domain/interfaces/repositories"
	"github.com/davrell/packsmith/internal/domain/services"
)

// ManifestParser parses dependency manifests
type ManifestParser interface {
	ParseFile(path string) (*entities.Manifest, error)
}

// DependencyInstaller installs declared dependencies into an isolated environment
type DependencyInstaller interface {
	Install(ctx context.Context, profile *entities.Profile) error
}

// EnvWriter writes fallback environment files
type EnvWriter interface {
	Write(path string, values map[string]string) error
}

// Packager produces the single-file executable
type Packager interface {
	Package(ctx context.Context, profile *entities.Profile) (*entities.Artifact, error)
}

// SidecarGenerator produces checksum and provenance sidecars
type SidecarGenerator interface {
	GenerateAll(ctx context.Context, artifactPath string, prov services.Provenance) (*services.Sidecars, error)
	FileSHA256(path string) (string, error)
}

// BuildOrchestrator coordinates the complete build workflow: a strictly linear
// pipeline with no branching, retry, or rollback. Any step failure aborts the
// remaining steps.
type BuildOrchestrator struct {
	profileRepo repositories.ProfileRepository
	manifests   ManifestParser
	installer   DependencyInstaller
	envWriter   EnvWriter
	packager    Packager
	sidecars    SidecarGenerator
	log         interfaces.Logger
	config      BuildOrchestratorConfig
}

// BuildOrchestratorConfig holds configuration for the orchestrator
type BuildOrchestratorConfig struct {
	SkipInstall  bool // reuse an existing isolated environment
	SkipEnv      bool // do not write the fallback env file
	SkipSidecars bool // do not generate checksum/provenance sidecars
}

// NewBuildOrchestrator creates a new build orchestrator
func NewBuildOrchestrator(
	profileRepo repositories.ProfileRepository,
	manifests ManifestParser,
	installer DependencyInstaller,
	envWriter EnvWriter,
	packager Packager,
	sidecars SidecarGenerator,
	log interfaces.Logger,
	config BuildOrchestratorConfig,
) *BuildOrchestrator {
	if log == nil {
		log = &interfaces.NoOpLogger{}
	}
	return &BuildOrchestrator{
		profileRepo: profileRepo,
		manifests:   manifests,
		installer:   installer,
		envWriter:   envWriter,
		packager:    packager,
		sidecars:    sidecars,
		log:         log,
		config:      config,
	}
}

// BuildResult contains the result of a build operation
type BuildResult struct {
	RunID           string
	Profile         *entities.Profile
	Manifest        *entities.Manifest
	Artifact        *entities.Artifact
	Sidecars        *services.Sidecars
	InstallDuration time.Duration
	PackageDuration time.Duration
	TotalDuration   time.Duration
	Success         bool
	Error           error
}

// BuildProfile loads a named profile and executes the build pipeline for it.
func (o *BuildOrchestrator) BuildProfile(ctx context.Context, name string) (*BuildResult, error) {
	profile, err := o.profileRepo.GetProfile(ctx, name)
	if err != nil {
		result := &BuildResult{Error: fmt.Errorf("failed to load profile: %w", err)}
		return result, result.Error
	}
	return o.Build(ctx, profile)
}

// Build executes the build pipeline for an already-loaded profile:
// manifest parse -> install -> fallback env -> package -> sidecars.
func (o *BuildOrchestrator) Build(ctx context.Context, profile *entities.Profile) (*BuildResult, error) {
	startTime := time.Now()
	result := &BuildResult{
		RunID:   uuid.NewString(),
		Profile: profile,
	}

	if err := profile.Validate(); err != nil {
		result.Error = err
		return result, result.Error
	}

	o.log.Info("build started",
		interfaces.F("run_id", result.RunID),
		interfaces.F("profile", profile.Name))

	// Step 1: Parse and validate the dependency manifest
	manifest, err := o.manifests.ParseFile(profile.ManifestPath())
	if err != nil {
		result.Error = fmt.Errorf("failed to parse manifest: %w", err)
		return result, result.Error
	}
	result.Manifest = manifest

	// Step 2: Install dependencies into the isolated environment
	if !o.config.SkipInstall {
		installStart := time.Now()
		if err := o.installer.Install(ctx, profile); err != nil {
			result.Error = err
			return result, result.Error
		}
		result.InstallDuration = time.Since(installStart)
	}

	// Step 3: Write the fallback environment file
	if !o.config.SkipEnv && len(profile.Env.Values) > 0 {
		if err := o.envWriter.Write(profile.EnvPath(), profile.Env.Values); err != nil {
			result.Error = err
			return result, result.Error
		}
		o.log.Info("fallback env written", interfaces.F("path", profile.EnvPath()))
	}

	// Step 4: Package the single-file executable
	packageStart := time.Now()
	artifact, err := o.packager.Package(ctx, profile)
	if err != nil {
		result.Error = err
		return result, result.Error
	}
	result.Artifact = artifact
	result.PackageDuration = time.Since(packageStart)

	// Step 5: Generate sidecars next to the artifact
	if !o.config.SkipSidecars {
		manifestDigest, err := o.sidecars.FileSHA256(profile.ManifestPath())
		if err != nil {
			result.Error = fmt.Errorf("failed to digest manifest: %w", err)
			return result, result.Error
		}

		sidecars, err := o.sidecars.GenerateAll(ctx, artifact.Path, services.Provenance{
			RunID:          result.RunID,
			Profile:        profile.Name,
			Entrypoint:     profile.Entrypoint,
			ManifestSHA256: manifestDigest,
			PythonVersion:  profile.Dependencies.PythonVersion,
		})
		if err != nil {
			result.Error = fmt.Errorf("failed to generate sidecars: %w", err)
			return result, result.Error
		}
		result.Sidecars = sidecars
	}

	result.Success = true
	result.TotalDuration = time.Since(startTime)

	o.log.Info("build finished",
		interfaces.F("run_id", result.RunID),
		interfaces.F("artifact", artifact.Path),
		interfaces.F("duration", result.TotalDuration))

	return result, nil
}

// GetBuildSummary returns a human-readable summary of the build
func (r *BuildResult) GetBuildSummary() string {
	if !r.Success {
		return fmt.Sprintf("Build failed: %v", r.Error)
	}

	summary := fmt.Sprintf(`Build successful!
Profile: %s
Artifact: %s
Dependencies: %d
Install: %v
Package: %v
Total: %v`,
		r.Profile.Name,
		r.Artifact.Path,
		len(r.Manifest.Dependencies),
		r.InstallDuration,
		r.PackageDuration,
		r.TotalDuration,
	)

	if r.Sidecars != nil {
		summary += fmt.Sprintf("\nSidecars: %s, %s, %s",
			r.Sidecars.SHA256Path, r.Sidecars.SHA512Path, r.Sidecars.ProvenancePath)
	}

	return summary
}
