// Package formula declares the built-in build profile: the option schema,
// the conditional dependency table, the option-to-variable mapping and the
// toolchain preconditions. This table is the system's protocol; the resolver
// checks its internal consistency at construction.
package formula

import (
	"fmt"

	"github.com/confbuild/confer/buildvars"
	"github.com/confbuild/confer/deps"
	"github.com/confbuild/confer/mod/module"
	"github.com/confbuild/confer/mod/versions"
	"github.com/confbuild/confer/options"
	"github.com/confbuild/confer/resolver"
	"github.com/confbuild/confer/toolchain"
)

// Default returns the declared profile.
func Default() resolver.Profile {
	return resolver.Profile{
		Schema:      schema(),
		Deps:        dependencies(),
		Mapping:     mapping(),
		Constraints: constraints(),
	}
}

func schema() *options.Schema {
	return options.MustNew(
		options.Option{Name: "build_tests", Domain: options.Bool(), Default: "false"},
		options.Option{Name: "update_checks", Domain: options.Bool(), Default: "true"},
		options.Option{Name: "disable_openmp", Domain: options.Bool(), Default: "false"},

		// The following options are helpful for development and/or CI.
		options.Option{Name: "use_werror", Domain: options.Bool(), Default: "false"},
		options.Option{Name: "use_clang_tidy", Domain: options.Bool(), Default: "false"},
		options.Option{Name: "export_compile_commands", Domain: options.Bool(), Default: "false"},
		options.Option{Name: "use_iwyu", Domain: options.Bool(), Default: "false"},
		options.Option{Name: "clang_tidy_warnings_as_errors", Domain: options.Bool(), Default: "false"},
		options.Option{Name: "windows_driver_path", Domain: options.Any(), Default: ""},
		options.Option{Name: "use_ccache", Domain: options.Bool(), Default: "false"},
		options.Option{Name: "build_type", Domain: options.Enum("Release", "Debug", "RelWithDebInfo"), Default: "Release"},
	)
}

func dependencies() []deps.Spec {
	return []deps.Spec{
		{Version: module.Version{Path: "range-v3", Version: "0.12.0"}},
		{Version: module.Version{Path: "spdlog", Version: "1.14.1"}},
		{
			Version: module.Version{Path: "boost", Version: "1.84.0"},
			Options: boostOptions(),
		},
		{
			Version: module.Version{Path: "libcurl", Version: "8.9.1"},
			When:    deps.WhenTrue("update_checks"),
		},
		{
			Version: module.Version{Path: "gtest", Version: "1.15.0"},
			When:    deps.WhenTrue("build_tests"),
		},
	}
}

// boostOptions trims boost down to the modules actually linked, keeping the
// transitive build surface small.
func boostOptions() map[string]string {
	return map[string]string{
		"system_no_deprecated":     "true",
		"asio_no_deprecated":       "true",
		"filesystem_no_deprecated": "true",
		"without_atomic":           "false", // needed by boost thread
		"without_chrono":           "false",
		"without_cobalt":           "true",
		"without_container":        "false", // needed by boost thread
		"without_context":          "true",
		"without_contract":         "true",
		"without_coroutine":        "true",
		"without_date_time":        "false", // needed by boost thread
		"without_exception":        "false", // needed by boost thread
		"without_fiber":            "true",
		"without_filesystem":       "false",
		"without_graph":            "true",
		"without_graph_parallel":   "true",
		"without_iostreams":        "true",
		"without_json":             "true",
		"without_locale":           "true",
		"without_log":              "true",
		"without_math":             "true",
		"without_mpi":              "true",
		"without_nowide":           "true",
		"without_program_options":  "false",
		"without_python":           "true",
		"without_random":           "true",
		"without_regex":            "true",
		"without_serialization":    "false", // needed by boost date_time
		// Stacktrace is header-only; linking its static variant disables
		// stack traces, so it must stay excluded from the built libraries.
		"without_stacktrace":   "true",
		"without_system":       "false",
		"without_test":         "true",
		"without_thread":       "false",
		"without_timer":        "true",
		"without_type_erasure": "true",
		"without_url":          "true",
		"without_wave":         "true",
	}
}

func mapping() buildvars.Mapping {
	return buildvars.Mapping{
		{Option: "build_tests", Emit: []buildvars.Emission{buildvars.BoolVar("BUILD_TESTING")}},
		{Option: "update_checks", Emit: []buildvars.Emission{buildvars.BoolVar("UPDATE_CHECKS")}},
		{Option: "disable_openmp", Emit: []buildvars.Emission{buildvars.BoolVar("DISABLE_OPENMP")}},
		{Option: "use_werror", Emit: []buildvars.Emission{buildvars.BoolVar("USE_WERROR")}},
		{Option: "use_clang_tidy", Emit: []buildvars.Emission{buildvars.BoolVar("USE_CLANG_TIDY")}},
		{Option: "export_compile_commands", Emit: []buildvars.Emission{buildvars.BoolVar("CMAKE_EXPORT_COMPILE_COMMANDS")}},
		{Option: "use_iwyu", Emit: []buildvars.Emission{buildvars.BoolVar("USE_IWYU")}},
		{Option: "clang_tidy_warnings_as_errors", Emit: []buildvars.Emission{buildvars.BoolVar("CLANG_TIDY_WARNINGS_AS_ERRORS")}},
		// ccache is incompatible with the /Zi and /ZI debug formats and
		// needs /Z7, so enabling the launcher also pins the MSVC debug
		// information format to Embedded.
		{Option: "use_ccache", Emit: []buildvars.Emission{
			buildvars.FixedWhenTrue("CMAKE_C_COMPILER_LAUNCHER", "ccache"),
			buildvars.FixedWhenTrue("CMAKE_CXX_COMPILER_LAUNCHER", "ccache"),
			buildvars.FixedWhenTrue("CMAKE_MSVC_DEBUG_INFORMATION_FORMAT", "Embedded"),
		}},
		{Option: "windows_driver_path", Emit: []buildvars.Emission{buildvars.StringVar("DRIVER_PATH")}},
		{Option: "build_type", Emit: []buildvars.Emission{buildvars.StringVar("CMAKE_BUILD_TYPE")}},
	}
}

func constraints() []toolchain.Constraint {
	return []toolchain.Constraint{
		toolchain.MinStd(17),
		toolchain.MinCMake("3.25.3"),
	}
}

// WithPins returns a copy of the profile with dependency versions overridden
// from a pin file. Pins naming dependencies the profile does not declare are
// rejected.
func WithPins(p resolver.Profile, pins *versions.File) (resolver.Profile, error) {
	if pins == nil || len(pins.Pins) == 0 {
		return p, nil
	}
	declared := make(map[string]bool, len(p.Deps))
	out := make([]deps.Spec, len(p.Deps))
	for i, d := range p.Deps {
		declared[d.Path] = true
		if ver, ok := pins.Pin(d.Path); ok {
			d.Version.Version = ver
		}
		out[i] = d
	}
	for path := range pins.Pins {
		if !declared[path] {
			return resolver.Profile{}, fmt.Errorf("formula: pin for undeclared dependency %q", path)
		}
	}
	p.Deps = out
	return p, nil
}
