package deps

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/confbuild/confer/mod/module"
	"github.com/confbuild/confer/options"
)

func resolved(t *testing.T, overrides map[string]any) options.Resolved {
	t.Helper()
	schema := options.MustNew(
		options.Option{Name: "update_checks", Domain: options.Bool(), Default: "true"},
		options.Option{Name: "build_tests", Domain: options.Bool(), Default: "false"},
		options.Option{Name: "build_type", Domain: options.Enum("Release", "Debug"), Default: "Release"},
	)
	r, err := schema.Resolve(overrides)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return r
}

func testSpecs() []Spec {
	return []Spec{
		{Version: module.Version{Path: "range-v3", Version: "0.12.0"}},
		{Version: module.Version{Path: "spdlog", Version: "1.14.1"}, When: Always()},
		{
			Version: module.Version{Path: "libcurl", Version: "8.9.1"},
			When:    WhenTrue("update_checks"),
		},
		{
			Version: module.Version{Path: "gtest", Version: "1.15.0"},
			When:    WhenTrue("build_tests"),
			Options: map[string]string{"build_gmock": "true"},
		},
	}
}

func paths(specs []Spec) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Path
	}
	return out
}

func TestCompute_Defaults(t *testing.T) {
	got := Compute(testSpecs(), resolved(t, nil))
	want := []string{"range-v3", "spdlog", "libcurl"}
	if diff := cmp.Diff(want, paths(got)); diff != "" {
		t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_BooleanToggles(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		want      []string
	}{
		{
			name:      "update checks off",
			overrides: map[string]any{"update_checks": false},
			want:      []string{"range-v3", "spdlog"},
		},
		{
			name:      "tests on",
			overrides: map[string]any{"build_tests": true},
			want:      []string{"range-v3", "spdlog", "libcurl", "gtest"},
		},
		{
			name:      "tests on checks off",
			overrides: map[string]any{"build_tests": true, "update_checks": false},
			want:      []string{"range-v3", "spdlog", "gtest"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(testSpecs(), resolved(t, tt.overrides))
			if diff := cmp.Diff(tt.want, paths(got)); diff != "" {
				t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompute_Deterministic(t *testing.T) {
	r := resolved(t, map[string]any{"build_tests": true})
	first := Compute(testSpecs(), r)
	for i := 0; i < 10; i++ {
		again := Compute(testSpecs(), r)
		if diff := cmp.Diff(paths(first), paths(again)); diff != "" {
			t.Fatalf("Compute() not deterministic on run %d (-first +again):\n%s", i, diff)
		}
	}
}

func TestCompute_OptionsAttachedVerbatim(t *testing.T) {
	got := Compute(testSpecs(), resolved(t, map[string]any{"build_tests": true}))
	last := got[len(got)-1]
	if last.Path != "gtest" {
		t.Fatalf("last included dep = %s, want gtest", last.Path)
	}
	want := map[string]string{"build_gmock": "true"}
	if diff := cmp.Diff(want, last.Options); diff != "" {
		t.Errorf("sub-option overrides mismatch (-want +got):\n%s", diff)
	}
}

func TestPredicates(t *testing.T) {
	r := resolved(t, map[string]any{"build_tests": true, "build_type": "Debug"})
	tests := []struct {
		pred Predicate
		want bool
	}{
		{Always(), true},
		{WhenTrue("build_tests"), true},
		{WhenTrue("update_checks"), true},
		{WhenEquals("build_type", "Debug"), true},
		{WhenEquals("build_type", "Release"), false},
		{AllOf(WhenTrue("build_tests"), WhenEquals("build_type", "Debug")), true},
		{AllOf(WhenTrue("build_tests"), WhenEquals("build_type", "Release")), false},
	}
	for _, tt := range tests {
		if got := tt.pred.Eval(r); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.pred, got, tt.want)
		}
	}
}

func TestPredicateRefs(t *testing.T) {
	pred := AllOf(WhenTrue("a"), WhenEquals("b", "x"), Always())
	want := []string{"a", "b"}
	if diff := cmp.Diff(want, pred.Refs()); diff != "" {
		t.Errorf("Refs() mismatch (-want +got):\n%s", diff)
	}
}
