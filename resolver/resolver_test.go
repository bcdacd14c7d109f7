package resolver

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/confbuild/confer/buildvars"
	"github.com/confbuild/confer/deps"
	"github.com/confbuild/confer/mod/module"
	"github.com/confbuild/confer/options"
	"github.com/confbuild/confer/toolchain"
)

func testProfile(t *testing.T) Profile {
	t.Helper()
	return Profile{
		Schema: options.MustNew(
			options.Option{Name: "build_tests", Domain: options.Bool(), Default: "false"},
			options.Option{Name: "update_checks", Domain: options.Bool(), Default: "true"},
			options.Option{Name: "use_ccache", Domain: options.Bool(), Default: "false"},
			options.Option{Name: "driver_path", Domain: options.Any(), Default: ""},
		),
		Deps: []deps.Spec{
			{Version: module.Version{Path: "spdlog", Version: "1.14.1"}},
			{Version: module.Version{Path: "libcurl", Version: "8.9.1"}, When: deps.WhenTrue("update_checks")},
			{Version: module.Version{Path: "gtest", Version: "1.15.0"}, When: deps.WhenTrue("build_tests")},
		},
		Mapping: buildvars.Mapping{
			{Option: "build_tests", Emit: []buildvars.Emission{buildvars.BoolVar("BUILD_TESTING")}},
			{Option: "update_checks", Emit: []buildvars.Emission{buildvars.BoolVar("UPDATE_CHECKS")}},
			{Option: "use_ccache", Emit: []buildvars.Emission{
				buildvars.FixedWhenTrue("CMAKE_C_COMPILER_LAUNCHER", "ccache"),
				buildvars.FixedWhenTrue("CMAKE_CXX_COMPILER_LAUNCHER", "ccache"),
				buildvars.FixedWhenTrue("CMAKE_MSVC_DEBUG_INFORMATION_FORMAT", "Embedded"),
			}},
			{Option: "driver_path", Emit: []buildvars.Emission{buildvars.StringVar("DRIVER_PATH")}},
		},
		Constraints: []toolchain.Constraint{
			toolchain.MinStd(17),
			toolchain.MinCMake("3.25.3"),
		},
	}
}

func goodEnv() toolchain.Environment {
	return toolchain.Environment{Compiler: "clang", Std: 17, CMakeVersion: "3.28.1", OS: "linux"}
}

func TestNew_ConsistencyChecks(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Profile)
		wantMsg string
	}{
		{
			name:    "predicate references unknown option",
			mutate:  func(p *Profile) { p.Deps[1].When = deps.WhenTrue("no_such") },
			wantMsg: "unknown option",
		},
		{
			name: "predicate reads non-bool as bool",
			mutate: func(p *Profile) {
				p.Deps[1].When = deps.WhenTrue("driver_path")
			},
			wantMsg: "as boolean",
		},
		{
			name: "duplicate dependency",
			mutate: func(p *Profile) {
				p.Deps = append(p.Deps, deps.Spec{Version: module.Version{Path: "spdlog", Version: "1.0.0"}})
			},
			wantMsg: "duplicate dependency",
		},
		{
			name:    "invalid dependency version",
			mutate:  func(p *Profile) { p.Deps[0].Version.Version = "latest" },
			wantMsg: "invalid version",
		},
		{
			name:    "mapping not total",
			mutate:  func(p *Profile) { p.Mapping = p.Mapping[:len(p.Mapping)-1] },
			wantMsg: "not total",
		},
		{
			name: "mapping references unknown option",
			mutate: func(p *Profile) {
				p.Mapping = append(p.Mapping, buildvars.Rule{Option: "ghost"})
			},
			wantMsg: "unknown option",
		},
		{
			name: "option mapped twice",
			mutate: func(p *Profile) {
				p.Mapping = append(p.Mapping, buildvars.Rule{Option: "build_tests"})
			},
			wantMsg: "mapped twice",
		},
		{
			name: "variable emitted twice",
			mutate: func(p *Profile) {
				p.Mapping[1].Emit = append(p.Mapping[1].Emit, buildvars.BoolVar("BUILD_TESTING"))
			},
			wantMsg: "more than one rule",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProfile(t)
			tt.mutate(&p)
			_, err := New(p)
			if err == nil {
				t.Fatal("New() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("New() error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestNew_ConditionErrorNamesDependency(t *testing.T) {
	p := testProfile(t)
	p.Deps[1].When = deps.WhenTrue("no_such")
	_, err := New(p)
	if err == nil {
		t.Fatal("New() succeeded, want error")
	}
	if !strings.Contains(err.Error(), "libcurl@8.9.1") {
		t.Errorf("New() error = %q, want it to name the dependency as path@version", err)
	}
}

func TestRun(t *testing.T) {
	r, err := New(testProfile(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res, err := r.Run(goodEnv(), map[string]any{"build_tests": true, "use_ccache": "on"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var depPaths []string
	for _, d := range res.Dependencies {
		depPaths = append(depPaths, d.Path)
	}
	if diff := cmp.Diff([]string{"spdlog", "libcurl", "gtest"}, depPaths); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}

	if v, ok := res.Variables.Lookup("BUILD_TESTING"); !ok || v != "ON" {
		t.Errorf("BUILD_TESTING = %q, %v; want ON, true", v, ok)
	}
	if v, ok := res.Variables.Lookup("CMAKE_MSVC_DEBUG_INFORMATION_FORMAT"); !ok || v != "Embedded" {
		t.Errorf("debug info format = %q, %v; want Embedded, true (launcher fan-out)", v, ok)
	}
	if _, ok := res.Variables.Lookup("DRIVER_PATH"); ok {
		t.Errorf("DRIVER_PATH emitted for an unset option")
	}
}

func TestRun_ConstraintFailureProducesNothing(t *testing.T) {
	r, err := New(testProfile(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	env := goodEnv()
	env.Std = 14
	res, err := r.Run(env, nil)
	var cerr *toolchain.ConstraintError
	if !errors.As(err, &cerr) {
		t.Fatalf("Run() error = %v, want ConstraintError", err)
	}
	if res != nil {
		t.Errorf("Run() returned a result alongside the error")
	}
}

func TestRun_UnknownOptionNamesKey(t *testing.T) {
	r, err := New(testProfile(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = r.Run(goodEnv(), map[string]any{"use_cache": true})
	var unknown *options.UnknownOptionError
	if !errors.As(err, &unknown) {
		t.Fatalf("Run() error = %v, want UnknownOptionError", err)
	}
	if unknown.Name != "use_cache" {
		t.Errorf("UnknownOptionError.Name = %q, want %q", unknown.Name, "use_cache")
	}
}

func TestResolve_IdempotentThroughResolver(t *testing.T) {
	r, err := New(testProfile(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	first, err := r.Resolve(map[string]any{"update_checks": false})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	second, err := r.Resolve(first.AsOverrides())
	if err != nil {
		t.Fatalf("Resolve(AsOverrides) error = %v", err)
	}
	if diff := cmp.Diff(first.AsOverrides(), second.AsOverrides()); diff != "" {
		t.Errorf("resolve not idempotent (-first +second):\n%s", diff)
	}
}
