package entities

// Dependency is one declared dependency from a manifest.
type Dependency struct {
	Name       string
	Constraint string // version constraint including operator, e.g. "==2.1.0"
	Raw        string // original manifest line, trimmed
}

// Manifest enumerates the dependencies declared for a profile.
type Manifest struct {
	Path         string
	Dependencies []Dependency
}
