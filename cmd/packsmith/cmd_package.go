package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/davrell/packsmith/internal/domain-adapters/gateways"
)

func runPackage(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("package", flag.ExitOnError)
	var (
		profilesDir = fs.String("profiles-dir", "profiles", "Path to profiles directory")
		timeoutMin  = fs.Int("timeout", 30, "Timeout for packaging in minutes")
		verbose     = fs.Bool("verbose", false, "Verbose logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: packsmith package [profile] [options]

Package the profile's entry point and its resolved dependencies into a
single-file executable. Dependencies must already be installed (see
"packsmith deps").

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

	packageCtx, cancel := context.WithTimeout(ctx, time.Duration(*timeoutMin)*time.Minute)
	defer cancel()

	packager := gateways.NewExePackager(gateways.NewCommandRunner(), newLogger(*verbose))
	artifact, err := packager.Package(packageCtx, profile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Packaged %s (%d bytes)\n", artifact.Path, artifact.Size)
}
