package yaml

import (
	"testing"
)

// FuzzProfileParser tests the YAML parser against random/malformed inputs
// to detect crashes, panics, or unexpected behavior.
//
// Run with: go test -fuzz=FuzzProfileParser -fuzztime=30s
func FuzzProfileParser(f *testing.F) {
	// Seed corpus with valid profile examples
	f.Add([]byte(`name: backend
source:
  working_dir: backend
dependencies:
  manifest: requirements.txt
entrypoint: server.py
output:
  name: server.exe
`))

	f.Add([]byte(`name: api
description: API server
source:
  working_dir: services/api
dependencies:
  manifest: requirements.txt
  python: python3.11
  python_version: "3.11"
entrypoint: main.py
output:
  dir: build
  name: api.bin
env:
  path: .env
  values:
    MONGO_URL: mongodb://localhost:27017/sales_dashboard
    PORT: "8001"
publish:
  bundle: API-Bundle
  owner: acme
  repo: api
  tag: v1.0.0
`))

	f.Add([]byte(`name: []`))
	f.Add([]byte(`{}`))
	f.Add([]byte(``))

	f.Fuzz(func(t *testing.T, data []byte) {
		parser := NewProfileParser()

		// Must never panic; errors are fine
		profile, err := parser.Parse(data)

		// A successfully parsed profile must pass its own validation
		if err == nil && profile != nil {
			if verr := profile.Validate(); verr != nil {
				t.Errorf("Parse() accepted a profile that fails Validate(): %v", verr)
			}
		}
	})
}
