// Package deps declares conditional dependency requirements and evaluates
// them against a resolved option set.
//
// Inclusion conditions are declarative values rather than opaque closures so
// that the resolver can statically check every referenced option against the
// schema before any resolution pass runs.
package deps

import (
	"fmt"
	"strings"

	"github.com/confbuild/confer/mod/module"
	"github.com/confbuild/confer/options"
)

// -----------------------------------------------------------------------------

// Predicate is an inclusion condition over resolved options.
type Predicate interface {
	// Eval reports whether the condition holds for the resolved set.
	Eval(resolved options.Resolved) bool

	// Refs returns the option names the condition reads, for static
	// consistency checking against the schema.
	Refs() []string

	// BoolRefs returns the subset of Refs the condition reads as booleans.
	BoolRefs() []string

	// String describes the condition for logs and error messages.
	String() string
}

type always struct{}

// Always returns the condition that always holds.
func Always() Predicate { return always{} }

func (always) Eval(options.Resolved) bool { return true }
func (always) Refs() []string             { return nil }
func (always) BoolRefs() []string         { return nil }
func (always) String() string             { return "always" }

type whenTrue struct {
	name string
}

// WhenTrue returns the condition that holds iff the named boolean option
// resolves to true.
func WhenTrue(name string) Predicate { return whenTrue{name: name} }

func (p whenTrue) Eval(r options.Resolved) bool { return r.Bool(p.name) }
func (p whenTrue) Refs() []string               { return []string{p.name} }
func (p whenTrue) BoolRefs() []string           { return []string{p.name} }
func (p whenTrue) String() string               { return p.name }

type whenEquals struct {
	name  string
	value string
}

// WhenEquals returns the condition that holds iff the named option resolves
// to exactly the given value.
func WhenEquals(name, value string) Predicate {
	return whenEquals{name: name, value: value}
}

func (p whenEquals) Eval(r options.Resolved) bool { return r.Value(p.name) == p.value }
func (p whenEquals) Refs() []string               { return []string{p.name} }
func (p whenEquals) BoolRefs() []string           { return nil }
func (p whenEquals) String() string               { return fmt.Sprintf("%s=%s", p.name, p.value) }

type allOf struct {
	preds []Predicate
}

// AllOf returns the conjunction of the given conditions.
func AllOf(preds ...Predicate) Predicate { return allOf{preds: preds} }

func (p allOf) Eval(r options.Resolved) bool {
	for _, sub := range p.preds {
		if !sub.Eval(r) {
			return false
		}
	}
	return true
}

func (p allOf) Refs() []string {
	var refs []string
	for _, sub := range p.preds {
		refs = append(refs, sub.Refs()...)
	}
	return refs
}

func (p allOf) BoolRefs() []string {
	var refs []string
	for _, sub := range p.preds {
		refs = append(refs, sub.BoolRefs()...)
	}
	return refs
}

func (p allOf) String() string {
	parts := make([]string, len(p.preds))
	for i, sub := range p.preds {
		parts[i] = sub.String()
	}
	return strings.Join(parts, " && ")
}

// -----------------------------------------------------------------------------

// Spec declares one conditionally required dependency. Options are
// sub-option overrides pushed down into the dependency's own build,
// attached verbatim when the dependency is included.
type Spec struct {
	module.Version

	When    Predicate         // nil means always included
	Options map[string]string // sub-option overrides for the dependency
}

// Included reports whether the spec's condition holds for the resolved set.
func (s Spec) Included(resolved options.Resolved) bool {
	if s.When == nil {
		return true
	}
	return s.When.Eval(resolved)
}

// Compute evaluates every spec against the resolved option set and returns
// the included specs. The returned order is stable and matches declaration
// order; downstream dependency managers may be order-sensitive.
func Compute(specs []Spec, resolved options.Resolved) []Spec {
	out := make([]Spec, 0, len(specs))
	for _, spec := range specs {
		if spec.Included(resolved) {
			out = append(out, spec)
		}
	}
	return out
}
