package gateways

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/davrell/packsmith/internal/domain/faults"
)

// EnvWriter writes and reads fallback environment files (KEY=VALUE lines).
type EnvWriter struct{}

// NewEnvWriter creates a new env writer
func NewEnvWriter() *EnvWriter {
	return &EnvWriter{}
}

// Write creates the env file at path, overwriting any existing file. Keys are
// written in sorted order so the output is deterministic.
func (w *EnvWriter) Write(path string, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		if key == "" || strings.ContainsAny(key, "=\n") {
			return &faults.FilesystemError{
				Op:   "write",
				Path: path,
				Err:  fmt.Errorf("invalid env key %q", key),
			}
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%s\n", key, values[key])
	}

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return &faults.FilesystemError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Read parses an env file back into a key-value map.
func (w *EnvWriter) Read(path string) (map[string]string, error) {
	//nolint:gosec // G304: env path comes from the build profile
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &faults.FilesystemError{Op: "read", Path: path, Err: err}
	}

	values := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found || key == "" {
			return nil, &faults.FilesystemError{
				Op:   "read",
				Path: path,
				Err:  fmt.Errorf("malformed line %q", line),
			}
		}
		values[key] = value
	}
	return values, nil
}
