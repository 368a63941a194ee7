package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/davrell/packsmith/internal/domain-adapters/gateways"
	orchestrators "github.com/davrell/packsmith/internal/domain-orchestrators"
	"github.com/davrell/packsmith/internal/domain/entities"
	"github.com/davrell/packsmith/internal/domain/services"
)

func runPublish(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("publish", flag.ExitOnError)
	var (
		profilesDir = fs.String("profiles-dir", "profiles", "Path to profiles directory")
		owner       = fs.String("owner", "", "Repository owner (overrides profile)")
		repo        = fs.String("repo", "", "Repository name (overrides profile)")
		tag         = fs.String("tag", "", "Release tag (overrides profile)")
		timeoutMin  = fs.Int("timeout", 15, "Timeout for the upload in minutes")
		verbose     = fs.Bool("verbose", false, "Verbose logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: packsmith publish [profile] [options]

Upload a previously built bundle (executable plus sidecars) to the artifact
store. Authentication uses the PACKSMITH_GITHUB_TOKEN environment variable.

Examples:
  packsmith publish backend --tag v1.2.0
  packsmith publish api --owner acme --repo api --tag v0.3.1

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

	if *owner != "" {
		profile.Publish.Owner = *owner
	}
	if *repo != "" {
		profile.Publish.Repo = *repo
	}
	if *tag != "" {
		profile.Publish.Tag = *tag
	}

	bundle, err := assembleExistingBundle(profile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(*verbose)
	store := gateways.NewHTTPArtifactStore(os.Getenv("PACKSMITH_GITHUB_TOKEN"))
	publishOrch := orchestrators.NewPublishOrchestrator(store, services.NewBundleService(), logger)

	publishCtx, cancel := context.WithTimeout(ctx, time.Duration(*timeoutMin)*time.Minute)
	defer cancel()

	fmt.Printf("📤 Publishing bundle %s (%d artifacts)\n", bundle.Name, len(bundle.Artifacts))

	release, err := publishOrch.PublishBundle(publishCtx, profile, bundle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Published to %s\n", release.HTMLURL)
}

// assembleExistingBundle collects the built executable and whichever sidecars
// are present next to it.
func assembleExistingBundle(profile *entities.Profile) (*entities.Bundle, error) {
	outputPath := profile.OutputPath()
	info, err := os.Stat(outputPath)
	if err != nil {
		return nil, fmt.Errorf("no built executable at %s, run \"packsmith build\" first", outputPath)
	}

	executable := &entities.Artifact{
		Profile: profile.Name,
		Path:    outputPath,
		Size:    info.Size(),
		Type:    "executable",
	}

	sidecars := &services.Sidecars{}
	if _, err := os.Stat(outputPath + ".sha256"); err == nil {
		sidecars.SHA256Path = outputPath + ".sha256"
	}
	if _, err := os.Stat(outputPath + ".sha512"); err == nil {
		sidecars.SHA512Path = outputPath + ".sha512"
	}
	if _, err := os.Stat(outputPath + ".provenance.json"); err == nil {
		sidecars.ProvenancePath = outputPath + ".provenance.json"
	}

	return services.NewBundleService().Assemble(profile.BundleName(), executable, sidecars)
}
