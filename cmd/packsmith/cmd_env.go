package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/davrell/packsmith/internal/domain-adapters/gateways"
)

func runEnv(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("env", flag.ExitOnError)
	var (
		profilesDir = fs.String("profiles-dir", "profiles", "Path to profiles directory")
		show        = fs.Bool("show", false, "Print the current env file instead of writing it")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: packsmith env [profile] [options]

Write the profile's fallback environment file (KEY=VALUE lines) so the
packaged executable has usable settings. Overwrites any existing file.

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

	if profile.Env.Path == "" {
		fmt.Fprintf(os.Stderr, "Error: profile %s declares no env file\n", profile.Name)
		os.Exit(2)
	}

	writer := gateways.NewEnvWriter()

	if *show {
		values, err := writer.Read(profile.EnvPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("%s=%s\n", key, values[key])
		}
		return
	}

	if err := writer.Write(profile.EnvPath(), profile.Env.Values); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Wrote %d entries to %s\n", len(profile.Env.Values), profile.EnvPath())
}
