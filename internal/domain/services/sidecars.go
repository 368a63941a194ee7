package services

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"time"
)

// SidecarService generates the checksum and provenance files that accompany a
// built executable into its published bundle.
type SidecarService struct{}

// NewSidecarService creates a new sidecar service
func NewSidecarService() *SidecarService {
	return &SidecarService{}
}

// Sidecars holds the paths of all generated sidecar files.
type Sidecars struct {
	SHA256Path     string
	SHA512Path     string
	ProvenancePath string
}

// Provenance records how an artifact was produced.
type Provenance struct {
	RunID          string    `json:"run_id"`
	Profile        string    `json:"profile"`
	Entrypoint     string    `json:"entrypoint"`
	ManifestSHA256 string    `json:"manifest_sha256,omitempty"`
	PythonVersion  string    `json:"python_version,omitempty"`
	Builder        string    `json:"builder"`
	BuiltAt        time.Time `json:"built_at"`
}

// GenerateAll writes all sidecar files next to the artifact.
func (s *SidecarService) GenerateAll(_ context.Context, artifactPath string, prov Provenance) (*Sidecars, error) {
	sidecars := &Sidecars{}

	sha256Path, err := s.generateChecksum(artifactPath, ".sha256", sha256.New())
	if err != nil {
		return nil, fmt.Errorf("failed to generate SHA256: %w", err)
	}
	sidecars.SHA256Path = sha256Path

	sha512Path, err := s.generateChecksum(artifactPath, ".sha512", sha512.New())
	if err != nil {
		return nil, fmt.Errorf("failed to generate SHA512: %w", err)
	}
	sidecars.SHA512Path = sha512Path

	provenancePath, err := s.generateProvenance(artifactPath, prov)
	if err != nil {
		return nil, fmt.Errorf("failed to generate provenance: %w", err)
	}
	sidecars.ProvenancePath = provenancePath

	return sidecars, nil
}

// FileSHA256 returns the hex SHA256 digest of a file.
func (s *SidecarService) FileSHA256(path string) (string, error) {
	h := sha256.New()
	if err := hashFile(h, path); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// generateChecksum writes a "<hex>  <basename>" checksum file beside the artifact.
func (s *SidecarService) generateChecksum(filePath, ext string, h hash.Hash) (string, error) {
	if err := hashFile(h, filePath); err != nil {
		return "", err
	}

	checksumPath := filePath + ext
	content := fmt.Sprintf("%s  %s\n", hex.EncodeToString(h.Sum(nil)), filepath.Base(filePath))

	if err := os.WriteFile(checksumPath, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("failed to write checksum file: %w", err)
	}
	return checksumPath, nil
}

func (s *SidecarService) generateProvenance(filePath string, prov Provenance) (string, error) {
	if prov.Builder == "" {
		prov.Builder = "packsmith"
	}
	if prov.BuiltAt.IsZero() {
		prov.BuiltAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(prov, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal provenance: %w", err)
	}

	provenancePath := filePath + ".provenance.json"
	if err := os.WriteFile(provenancePath, append(data, '\n'), 0600); err != nil {
		return "", fmt.Errorf("failed to write provenance file: %w", err)
	}
	return provenancePath, nil
}

func hashFile(h hash.Hash, path string) error {
	//nolint:gosec // G304: artifact path comes from the build pipeline
	f, err := os.Open(path)
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
