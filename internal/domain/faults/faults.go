// Package faults defines the error taxonomy of the build pipeline. Each type
// corresponds to the failure of one linear step and preserves the underlying
// tool's diagnostic output verbatim.
package faults

import (
	"fmt"
	"strings"
)

// InstallError reports that a declared dependency could not be resolved or
// installed into the isolated environment.
type InstallError struct {
	Manifest string
	Output   string // verbatim stderr of the installer tool
	Err      error
}

func (e *InstallError) Error() string {
	msg := fmt.Sprintf("dependency install failed for %s: %v", e.Manifest, e.Err)
	return withOutput(msg, e.Output)
}

func (e *InstallError) Unwrap() error { return e.Err }

// FilesystemError reports a permission or path failure while creating or
// reading a configuration file.
type FilesystemError struct {
	Op   string // "write", "read", "mkdir"
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// PackagingError reports a failure to produce the single-file executable:
// a missing entry point, unresolved imports, or a packaging tool failure.
type PackagingError struct {
	Entrypoint string
	Output     string // verbatim stderr of the packaging tool
	Err        error
}

func (e *PackagingError) Error() string {
	msg := fmt.Sprintf("packaging failed for %s: %v", e.Entrypoint, e.Err)
	return withOutput(msg, e.Output)
}

func (e *PackagingError) Unwrap() error { return e.Err }

// UploadError reports a failure to publish an artifact bundle.
type UploadError struct {
	Bundle string
	Asset  string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Asset != "" {
		return fmt.Sprintf("upload of %s failed for bundle %s: %v", e.Asset, e.Bundle, e.Err)
	}
	return fmt.Sprintf("upload failed for bundle %s: %v", e.Bundle, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

func withOutput(msg, output string) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return msg
	}
	return msg + "\n" + output
}
