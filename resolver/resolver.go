// Package resolver turns a declared build profile plus caller overrides into
// the dependency list and build variable map for one native build invocation.
//
// A Resolver is immutable after construction, so concurrent passes on
// distinct inputs need no coordination. Each pass is a strictly sequential
// state machine: validate, resolve, compute dependencies, emit variables.
// Any failure is terminal for the pass.
package resolver

import (
	"fmt"

	"github.com/confbuild/confer/buildvars"
	"github.com/confbuild/confer/deps"
	"github.com/confbuild/confer/mod/versions"
	"github.com/confbuild/confer/options"
	"github.com/confbuild/confer/toolchain"
)

// Profile is the declared configuration table: the option schema, the
// conditional dependency requirements, the option-to-variable mapping and
// the toolchain preconditions. It is the system's only protocol and must be
// internally consistent; New checks that.
type Profile struct {
	Schema      *options.Schema
	Deps        []deps.Spec
	Mapping     buildvars.Mapping
	Constraints []toolchain.Constraint
}

// Resolver owns a checked Profile. The zero value is unusable; construct
// with New.
type Resolver struct {
	p Profile
}

// New checks the profile's internal consistency and returns a Resolver.
// Checks:
//   - every option a dependency predicate references exists in the schema,
//     and options read as booleans have the boolean domain;
//   - every dependency has a path and a semver-valid version, with no
//     duplicate paths;
//   - the variable mapping is total (exactly one rule per schema option)
//     and emits no variable key twice.
func New(p Profile) (*Resolver, error) {
	if p.Schema == nil {
		return nil, fmt.Errorf("resolver: profile has no schema")
	}
	seen := make(map[string]bool, len(p.Deps))
	for _, d := range p.Deps {
		if d.Path == "" {
			return nil, fmt.Errorf("resolver: dependency with empty path")
		}
		if seen[d.Path] {
			return nil, fmt.Errorf("resolver: duplicate dependency %q", d.Path)
		}
		seen[d.Path] = true
		if !versions.IsValid(d.Version.Version) {
			return nil, fmt.Errorf("resolver: dependency %s: invalid version %q", d.Path, d.Version.Version)
		}
		if d.When == nil {
			continue
		}
		for _, ref := range d.When.Refs() {
			if _, ok := p.Schema.Lookup(ref); !ok {
				return nil, fmt.Errorf("resolver: dependency %s: condition references unknown option %q", d.Version, ref)
			}
		}
		for _, ref := range d.When.BoolRefs() {
			opt, _ := p.Schema.Lookup(ref)
			if !options.IsBool(opt.Domain) {
				return nil, fmt.Errorf("resolver: dependency %s: condition reads option %q as boolean, domain is %s",
					d.Version, ref, opt.Domain)
			}
		}
	}
	mapped := make(map[string]bool, len(p.Mapping))
	for _, rule := range p.Mapping {
		if _, ok := p.Schema.Lookup(rule.Option); !ok {
			return nil, fmt.Errorf("resolver: mapping references unknown option %q", rule.Option)
		}
		if mapped[rule.Option] {
			return nil, fmt.Errorf("resolver: option %q mapped twice", rule.Option)
		}
		mapped[rule.Option] = true
	}
	for _, name := range p.Schema.Names() {
		if !mapped[name] {
			return nil, fmt.Errorf("resolver: mapping is not total: option %q has no rule", name)
		}
	}
	emitted := make(map[string]bool)
	for _, key := range p.Mapping.Keys() {
		if emitted[key] {
			return nil, fmt.Errorf("resolver: variable %q emitted by more than one rule", key)
		}
		emitted[key] = true
	}
	return &Resolver{p: p}, nil
}

// Schema returns the profile's option schema.
func (r *Resolver) Schema() *options.Schema { return r.p.Schema }

// Validate checks every toolchain constraint against the environment.
// It must pass before any resolution work; a ConstraintError is fatal.
func (r *Resolver) Validate(env toolchain.Environment) error {
	return toolchain.Check(env, r.p.Constraints)
}

// Resolve overlays overrides onto the schema defaults. See options.Schema.Resolve.
func (r *Resolver) Resolve(overrides map[string]any) (options.Resolved, error) {
	return r.p.Schema.Resolve(overrides)
}

// Dependencies evaluates the declared dependency conditions against the
// resolved set. The result order matches declaration order.
func (r *Resolver) Dependencies(resolved options.Resolved) []deps.Spec {
	return deps.Compute(r.p.Deps, resolved)
}

// BuildVariables derives the build variable map from the resolved set.
// Pure function; consults nothing outside resolved.
func (r *Resolver) BuildVariables(resolved options.Resolved) buildvars.Map {
	return r.p.Mapping.Apply(resolved)
}

// Result is the complete output of one resolution pass.
type Result struct {
	Options      options.Resolved
	Dependencies []deps.Spec
	Variables    buildvars.Map
}

// Run performs a whole pass: validate, resolve, compute dependencies, emit
// variables. On any error nothing is produced.
func (r *Resolver) Run(env toolchain.Environment, overrides map[string]any) (*Result, error) {
	pass := r.NewPass()
	if err := pass.Validate(env); err != nil {
		return nil, err
	}
	resolved, err := pass.Resolve(overrides)
	if err != nil {
		return nil, err
	}
	included, err := pass.Dependencies()
	if err != nil {
		return nil, err
	}
	vars, err := pass.BuildVariables()
	if err != nil {
		return nil, err
	}
	return &Result{Options: resolved, Dependencies: included, Variables: vars}, nil
}
