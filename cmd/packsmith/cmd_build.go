package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/davrell/packsmith/internal/domain-adapters/gateways"
	orchestrators "github.com/davrell/packsmith/internal/domain-orchestrators"
	"github.com/davrell/packsmith/internal/domain/entities"
	"github.com/davrell/packsmith/internal/domain/interfaces"
	"github.com/davrell/packsmith/internal/domain/services"
)

// buildReport is the JSON shape written with --json-report
type buildReport struct {
	RunID           string  `json:"run_id"`
	Profile         string  `json:"profile"`
	Artifact        string  `json:"artifact,omitempty"`
	Dependencies    int     `json:"dependencies"`
	InstallSeconds  float64 `json:"install_seconds"`
	PackageSeconds  float64 `json:"package_seconds"`
	DurationSeconds float64 `json:"duration_seconds"`
	Published       bool    `json:"published"`
	Success         bool    `json:"success"`
	Error           string  `json:"error,omitempty"`
}

func runBuild(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	var (
		profilesDir  = fs.String("profiles-dir", "profiles", "Path to profiles directory")
		publish      = fs.Bool("publish", false, "Publish the bundle after a successful build")
		timeoutMin   = fs.Int("timeout", 30, "Timeout for the whole build in minutes")
		skipInstall  = fs.Bool("skip-install", false, "Reuse the existing isolated environment")
		skipEnv      = fs.Bool("skip-env", false, "Do not write the fallback env file")
		skipSidecars = fs.Bool("no-sidecars", false, "Do not generate checksum/provenance sidecars")
		jsonReport   = fs.String("json-report", "", "Optional JSON file for a build report")
		verbose      = fs.Bool("verbose", false, "Verbose logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: packsmith build [profile] [options]

Run the full build pipeline for a profile: install dependencies into an
isolated environment, write the fallback env file, package the entry point
into a single-file executable, and generate checksum/provenance sidecars.

Examples:
  packsmith build                        # Build the default backend profile
  packsmith build backend                # Same, by name
  packsmith build api --publish          # Build and upload the bundle
  packsmith build backend --skip-install # Reuse the existing environment

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(2)
	}

	name := defaultProfileName
	if fs.NArg() >= 1 {
		name = fs.Arg(0)
	}

	profile, err := loadProfile(ctx, *profilesDir, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger := newLogger(*verbose)
	runner := gateways.NewCommandRunner()
	sidecarService := services.NewSidecarService()

	orch := orchestrators.NewBuildOrchestrator(
		nil, // profile is already resolved
		services.NewManifestService(),
		gateways.NewDepInstaller(runner, logger),
		gateways.NewEnvWriter(),
		gateways.NewExePackager(runner, logger),
		sidecarService,
		logger,
		orchestrators.BuildOrchestratorConfig{
			SkipInstall:  *skipInstall,
			SkipEnv:      *skipEnv,
			SkipSidecars: *skipSidecars,
		},
	)

	buildCtx, cancel := context.WithTimeout(ctx, time.Duration(*timeoutMin)*time.Minute)
	defer cancel()

	fmt.Printf("🔨 Building %s\n\n", profile.Name)

	result, buildErr := orch.Build(buildCtx, profile)
	fmt.Println(result.GetBuildSummary())

	published := false
	var publishErr error
	if buildErr == nil && *publish {
		publishErr = publishBuildResult(buildCtx, profile, result, logger)
		published = publishErr == nil
	}

	if *jsonReport != "" {
		writeBuildReport(*jsonReport, result, published, buildErr, publishErr)
	}

	if buildErr != nil || publishErr != nil {
		if publishErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", publishErr)
		}
		os.Exit(1)
	}

	fmt.Printf("\n✅ Build complete: %s\n", result.Artifact.Path)
}

// publishBuildResult assembles the bundle from a fresh build result and
// uploads it.
func publishBuildResult(ctx context.Context, profile *entities.Profile, result *orchestrators.BuildResult, logger interfaces.Logger) error {
	bundleService := services.NewBundleService()

	bundle, err := bundleService.Assemble(profile.BundleName(), result.Artifact, result.Sidecars)
	if err != nil {
		return err
	}

	store := gateways.NewHTTPArtifactStore(os.Getenv("PACKSMITH_GITHUB_TOKEN"))
	publishOrch := orchestrators.NewPublishOrchestrator(store, bundleService, logger)

	fmt.Printf("\n📤 Publishing bundle %s...\n", bundle.Name)
	release, err := publishOrch.PublishBundle(ctx, profile, bundle)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Published %d artifacts to %s\n", len(bundle.Artifacts), release.HTMLURL)
	return nil
}

func writeBuildReport(path string, result *orchestrators.BuildResult, published bool, buildErr, publishErr error) {
	report := buildReport{
		RunID:           result.RunID,
		InstallSeconds:  result.InstallDuration.Seconds(),
		PackageSeconds:  result.PackageDuration.Seconds(),
		DurationSeconds: result.TotalDuration.Seconds(),
		Published:       published,
		Success:         result.Success && publishErr == nil,
	}
	if result.Profile != nil {
		report.Profile = result.Profile.Name
	}
	if result.Artifact != nil {
		report.Artifact = result.Artifact.Path
	}
	if result.Manifest != nil {
		report.Dependencies = len(result.Manifest.Dependencies)
	}
	if buildErr != nil {
		report.Error = buildErr.Error()
	} else if publishErr != nil {
		report.Error = publishErr.Error()
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to marshal JSON report: %v\n", err)
		return
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to write JSON report: %v\n", err)
	}
}
