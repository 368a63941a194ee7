package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/davrell/packsmith/internal/domain-adapters/gateways"
	"github.com/davrell/packsmith/internal/external-adapters/gpg"
)

func runVerify(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	var (
		checksumFile = fs.String("checksum", "", "Checksum file to verify against (.sha256 or .sha512)")
		gpgSig       = fs.String("gpg-sig", "", "Detached GPG signature file (.asc or .sig)")
		gpgKeyFile   = fs.String("gpg-key-file", "", "GPG public key file to import")
		gpgKeysURL   = fs.String("gpg-keys-url", "", "URL to a KEYS file for GPG verification")
		verifyAll    = fs.Bool("all", false, "Verify all sidecars found next to the file")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: packsmith verify <file> [options]

Verify checksums and signatures of a published artifact.

Examples:
  packsmith verify dist/server.exe --checksum dist/server.exe.sha256
  packsmith verify dist/server.exe --gpg-sig dist/server.exe.asc --gpg-key-file release.pub
  packsmith verify dist/server.exe --all

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(2)
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: file path is required\n\n")
		fs.Usage()
		os.Exit(2)
	}

	filePath := fs.Arg(0)

	if *verifyAll {
		if *checksumFile == "" {
			if fileExists(filePath + ".sha256") {
				*checksumFile = filePath + ".sha256"
			} else if fileExists(filePath + ".sha512") {
				*checksumFile = filePath + ".sha512"
			}
		}
		if *gpgSig == "" && fileExists(filePath+".asc") {
			*gpgSig = filePath + ".asc"
		}
	}

	if *checksumFile == "" && *gpgSig == "" {
		fmt.Fprintf(os.Stderr, "Error: nothing to verify, pass --checksum, --gpg-sig or --all\n")
		os.Exit(2)
	}

	fmt.Printf("🔍 Verifying %s\n\n", filepath.Base(filePath))

	verified := 0
	failed := 0

	if *checksumFile != "" {
		fmt.Printf("📋 Verifying checksum...\n")
		verifier := gateways.NewChecksumVerifier()
		if err := verifier.VerifyAgainstFile(ctx, filePath, *checksumFile); err != nil {
			fmt.Printf("❌ Checksum verification FAILED: %v\n\n", err)
			failed++
		} else {
			fmt.Printf("✅ Checksum verified\n\n")
			verified++
		}
	}

	if *gpgSig != "" {
		fmt.Printf("🔑 Verifying GPG signature...\n")
		if err := verifyGPG(ctx, filePath, *gpgSig, *gpgKeyFile, *gpgKeysURL); err != nil {
			fmt.Printf("❌ GPG verification FAILED: %v\n\n", err)
			failed++
		} else {
			fmt.Printf("✅ GPG signature verified\n\n")
			verified++
		}
	}

	fmt.Printf("Verified: %d, Failed: %d\n", verified, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func verifyGPG(ctx context.Context, filePath, sigPath, keyFile, keysURL string) error {
	verifier := gpg.NewVerifier()

	switch {
	case keyFile != "":
		if err := verifier.ImportKeyFromFile(keyFile); err != nil {
			return err
		}
	case keysURL != "":
		if err := verifier.ImportKeysFromURL(ctx, keysURL); err != nil {
			return err
		}
	default:
		return fmt.Errorf("GPG verification needs --gpg-key-file or --gpg-keys-url")
	}

	return verifier.VerifyDetached(filePath, sigPath)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
