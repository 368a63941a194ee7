package gateways

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// ChecksumVerifier verifies artifact checksums using pure Go
type ChecksumVerifier struct{}

// NewChecksumVerifier creates a new checksum verifier
func NewChecksumVerifier() *ChecksumVerifier {
	return &ChecksumVerifier{}
}

// VerifyAgainstFile verifies a file against a checksum sidecar. The sidecar
// extension selects the algorithm (.sha256 or .sha512); its first field is the
// expected hex digest.
func (v *ChecksumVerifier) VerifyAgainstFile(ctx context.Context, filePath, checksumPath string) error {
	//nolint:gosec // G304: checksum path is user-provided for verification
	data, err := os.ReadFile(checksumPath)
	if err != nil {
		return fmt.Errorf("failed to read checksum file: %w", err)
	}

	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return fmt.Errorf("checksum file %s is empty", checksumPath)
	}
	expected := strings.ToLower(fields[0])

	var h hash.Hash
	switch {
	case strings.HasSuffix(checksumPath, ".sha512"):
		h = sha512.New()
	case strings.HasSuffix(checksumPath, ".sha256"):
		h = sha256.New()
	default:
		// Fall back on digest length: 64 hex chars for SHA256, 128 for SHA512
		if len(expected) == 128 {
			h = sha512.New()
		} else {
			h = sha256.New()
		}
	}

	return v.verify(ctx, filePath, expected, h)
}

// VerifyChecksum verifies a file's SHA256 checksum against an expected digest.
func (v *ChecksumVerifier) VerifyChecksum(ctx context.Context, filePath, expectedSum string) error {
	return v.verify(ctx, filePath, strings.ToLower(expectedSum), sha256.New())
}

// CalculateChecksum calculates the SHA256 checksum of a file
func (v *ChecksumVerifier) CalculateChecksum(filePath string) (string, error) {
	h := sha256.New()
	if err := v.hashInto(h, filePath); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (v *ChecksumVerifier) verify(_ context.Context, filePath, expected string, h hash.Hash) error {
	if err := v.hashInto(h, filePath); err != nil {
		return err
	}

	actual := hex.EncodeToString(h.Sum(nil))
	if actual != expected {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}

func (v *ChecksumVerifier) hashInto(h hash.Hash, filePath string) error {
	//nolint:gosec // G304: file path is user-provided for checksum verification
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("failed to hash file: %w", err)
	}
	return nil
}
