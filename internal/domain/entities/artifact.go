package entities

// Artifact represents a single file produced by a build: the executable itself
// or one of its sidecar files.
type Artifact struct {
	Profile string
	Path    string
	Size    int64
	Type    string // "executable", "checksum", "provenance", "signature"
}

// Bundle is a named set of artifacts published together. A valid bundle
// contains exactly one executable.
type Bundle struct {
	Name      string
	Artifacts []Artifact
}

// Executables returns the executable artifacts in the bundle.
func (b *Bundle) Executables() []Artifact {
	var out []Artifact
	for _, a := range b.Artifacts {
		if a.Type == "executable" {
			out = append(out, a)
		}
	}
	return out
}
