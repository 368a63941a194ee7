package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/davrell/packsmith/internal/domain-adapters/gateways"
	"github.com/davrell/packsmith/internal/domain/services"
)

func runDeps(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("deps", flag.ExitOnError)
	var (
		profilesDir = fs.String("profiles-dir", "profiles", "Path to profiles directory")
		timeoutMin  = fs.Int("timeout", 20, "Timeout for the install in minutes")
		verbose     = fs.Bool("verbose", false, "Verbose logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: packsmith deps [profile] [options]

Install the profile's declared dependencies into its isolated environment.
The environment is recreated, so repeated runs converge on the manifest.

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

	manifest, err := services.NewManifestService().ParseFile(profile.ManifestPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("📦 Installing %d dependencies for %s\n", len(manifest.Dependencies), profile.Name)

	installCtx, cancel := context.WithTimeout(ctx, time.Duration(*timeoutMin)*time.Minute)
	defer cancel()

	installer := gateways.NewDepInstaller(gateways.NewCommandRunner(), newLogger(*verbose))
	if err := installer.Install(installCtx, profile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Dependencies installed into %s\n", profile.VenvDir())
}
