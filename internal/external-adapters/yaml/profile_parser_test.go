package yaml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validProfileYAML = `name: backend
description: Backend API server
source:
  working_dir: backend
dependencies:
  manifest: requirements.txt
  python_version: "3.11"
entrypoint: server.py
output:
  dir: dist
  name: server.exe
env:
  path: .env
  values:
    MONGO_URL: mongodb://localhost:27017/sales_dashboard
publish:
  bundle: Backend-EXE
`

func TestProfileParser_Parse_Valid(t *testing.T) {
	profile, err := NewProfileParser().Parse([]byte(validProfileYAML))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if profile.Name != "backend" {
		t.Errorf("Name = %q, want backend", profile.Name)
	}
	if profile.Source.WorkingDir != "backend" {
		t.Errorf("WorkingDir = %q, want backend", profile.Source.WorkingDir)
	}
	if profile.Dependencies.Manifest != "requirements.txt" {
		t.Errorf("Manifest = %q", profile.Dependencies.Manifest)
	}
	if profile.Dependencies.PythonVersion != "3.11" {
		t.Errorf("PythonVersion = %q, want 3.11", profile.Dependencies.PythonVersion)
	}
	if profile.Output.Name != "server.exe" {
		t.Errorf("Output.Name = %q, want server.exe", profile.Output.Name)
	}
	if got := profile.Env.Values["MONGO_URL"]; got != "mongodb://localhost:27017/sales_dashboard" {
		t.Errorf("MONGO_URL = %q", got)
	}
	if profile.Publish.Bundle != "Backend-EXE" {
		t.Errorf("Bundle = %q, want Backend-EXE", profile.Publish.Bundle)
	}
}

func TestProfileParser_Parse_MissingName(t *testing.T) {
	_, err := NewProfileParser().Parse([]byte("description: no name here\n"))
	if err == nil {
		t.Fatal("Parse() should have failed without a name")
	}
	if !strings.Contains(err.Error(), "name") {
		t.Errorf("Parse() error = %q, want name requirement", err.Error())
	}
}

func TestProfileParser_Parse_InvalidYAML(t *testing.T) {
	_, err := NewProfileParser().Parse([]byte("name: [unclosed"))
	if err == nil {
		t.Fatal("Parse() should have failed for invalid YAML")
	}
}

func TestProfileParser_Parse_FailsValidation(t *testing.T) {
	// Valid YAML, but the profile is missing its entry point
	data := []byte(`name: backend
source:
  working_dir: backend
dependencies:
  manifest: requirements.txt
output:
  name: server.exe
`)

	_, err := NewProfileParser().Parse(data)
	if err == nil {
		t.Fatal("Parse() should have failed validation")
	}
	if !strings.Contains(err.Error(), "entry point") {
		t.Errorf("Parse() error = %q, want entry point requirement", err.Error())
	}
}

func TestProfileParser_ParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backend.yml")
	if err := os.WriteFile(path, []byte(validProfileYAML), 0600); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}

	profile, err := NewProfileParser().ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}
	if profile.Name != "backend" {
		t.Errorf("Name = %q, want backend", profile.Name)
	}
}

func TestProfileParser_ParseFile_Missing(t *testing.T) {
	_, err := NewProfileParser().ParseFile(filepath.Join(t.TempDir(), "missing.yml"))
	if err == nil {
		t.Fatal("ParseFile() should have failed for missing file")
	}
}
