package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/davrell/packsmith/internal/external-adapters/yaml"
)

func runProfiles(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("profiles", flag.ExitOnError)
	var (
		profilesDir = fs.String("profiles-dir", "profiles", "Path to profiles directory")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: packsmith profiles [options]

List all available build profiles.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(2)
	}

	repo := yaml.NewProfileRepository(*profilesDir)
	profiles, err := repo.ListProfiles(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(profiles) == 0 {
		fmt.Println("No profiles found. The built-in backend profile is used by default.")
		return
	}

	fmt.Printf("Available profiles (%d):\n\n", len(profiles))
	for _, p := range profiles {
		fmt.Printf("  %s\n", p.Name)
		if p.Description != "" {
			fmt.Printf("    %s\n", p.Description)
		}
		fmt.Printf("    entrypoint: %s  output: %s\n", p.EntrypointPath(), p.OutputPath())
	}
}
