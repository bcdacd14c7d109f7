// Package versions provides functionality for parsing and managing dependency pin files.
package versions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/mod/semver"
)

// File represents a versions.json pin file. Pins override the versions
// declared for dependencies of the project identified by Path.
type File struct {
	Path string            `json:"path"` // Project path the pins apply to
	Pins map[string]string `json:"pins"` // Map of dependency path to pinned version
}

// Pin returns the pinned version for a dependency path, if any.
func (f *File) Pin(path string) (version string, ok bool) {
	version, ok = f.Pins[path]
	return
}

// Parse reads and parses a pin file from either provided data or a file path.
// If data is non-nil, it is used directly and the file parameter is ignored.
// Otherwise, the file is read from the provided path.
// Every pinned version must be a valid semantic version.
func Parse(file string, data []byte) (*File, error) {
	var reader io.Reader

	if data != nil {
		reader = bytes.NewBuffer(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		reader = f
	}

	var f File

	if err := json.NewDecoder(reader).Decode(&f); err != nil {
		return nil, err
	}
	for path, ver := range f.Pins {
		if !IsValid(ver) {
			return nil, fmt.Errorf("versions: invalid version %q for %q", ver, path)
		}
	}

	return &f, nil
}

// IsValid reports whether ver is a valid semantic version. The leading "v"
// required by the semver package is optional here, matching how native
// package versions are usually written ("1.84.0").
func IsValid(ver string) bool {
	return semver.IsValid(canonical(ver))
}

// Compare compares two versions with semver semantics, accepting versions
// with or without the leading "v".
func Compare(v1, v2 string) int {
	return semver.Compare(canonical(v1), canonical(v2))
}

func canonical(ver string) string {
	if ver == "" {
		return ver
	}
	if ver[0] != 'v' {
		return "v" + ver
	}
	return ver
}
