// Package toolchain checks preconditions on the ambient compiler and build
// environment before any option resolution runs.
package toolchain

import (
	"fmt"

	"github.com/confbuild/confer/mod/versions"
)

// Environment describes the ambient toolchain a build would run under.
// It is supplied by the caller; this package performs no probing.
type Environment struct {
	Compiler        string `yaml:"compiler"`         // e.g. "gcc", "clang", "msvc"
	CompilerVersion string `yaml:"compiler_version"` // e.g. "13.2.0"
	Std             int    `yaml:"std"`              // active language standard, e.g. 17
	CMakeVersion    string `yaml:"cmake_version"`    // e.g. "3.28.1"
	OS              string `yaml:"os"`               // e.g. "linux", "windows", "darwin"
}

// Constraint is a precondition over the environment. A failed check returns
// a ConstraintError; all other errors indicate the environment description
// itself is unusable.
type Constraint interface {
	Check(env Environment) error
	String() string
}

// ConstraintError reports an unmet toolchain precondition. It is fatal:
// the caller must not proceed to resolution.
type ConstraintError struct {
	Constraint string // the unmet constraint
	Detail     string // what the environment actually provides
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("toolchain constraint not met: %s (%s)", e.Constraint, e.Detail)
}

// -----------------------------------------------------------------------------

type minStd struct {
	std int
}

// MinStd requires a minimum language standard (e.g. 17).
func MinStd(std int) Constraint { return minStd{std: std} }

func (c minStd) Check(env Environment) error {
	if env.Std < c.std {
		return &ConstraintError{
			Constraint: c.String(),
			Detail:     fmt.Sprintf("active standard is %d", env.Std),
		}
	}
	return nil
}

func (c minStd) String() string {
	return fmt.Sprintf("language standard >= %d", c.std)
}

type minCMake struct {
	version string
}

// MinCMake requires a minimum cmake version, compared with semver semantics.
func MinCMake(version string) Constraint { return minCMake{version: version} }

func (c minCMake) Check(env Environment) error {
	if env.CMakeVersion == "" {
		return &ConstraintError{
			Constraint: c.String(),
			Detail:     "cmake version unknown",
		}
	}
	if !versions.IsValid(env.CMakeVersion) {
		return fmt.Errorf("toolchain: malformed cmake version %q", env.CMakeVersion)
	}
	if versions.Compare(env.CMakeVersion, c.version) < 0 {
		return &ConstraintError{
			Constraint: c.String(),
			Detail:     fmt.Sprintf("cmake %s found", env.CMakeVersion),
		}
	}
	return nil
}

func (c minCMake) String() string {
	return fmt.Sprintf("cmake >= %s", c.version)
}

// Check runs every constraint in order and returns the first failure.
func Check(env Environment, constraints []Constraint) error {
	for _, c := range constraints {
		if err := c.Check(env); err != nil {
			return err
		}
	}
	return nil
}
