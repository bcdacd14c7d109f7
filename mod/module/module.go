// Package module defines the module.Version type along with support code.
package module

// A Version (for clients, a module.Version) represents a specific version
// of an external dependency identified by its path.
type Version struct {
	Path    string // Dependency path in the form "owner/repo" or a bare name
	Version string // Version string (e.g., "1.0.0")
}

// String returns the "path@version" form used in logs and error messages.
func (v Version) String() string {
	if v.Version == "" {
		return v.Path
	}
	return v.Path + "@" + v.Version
}
