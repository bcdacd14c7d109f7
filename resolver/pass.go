package resolver

import (
	"errors"
	"fmt"

	"github.com/confbuild/confer/buildvars"
	"github.com/confbuild/confer/deps"
	"github.com/confbuild/confer/options"
	"github.com/confbuild/confer/toolchain"
)

// ErrPassFinished is returned when a pass is used after it failed or after
// its variables were emitted. Passes are single-use; start a new one.
var ErrPassFinished = errors.New("resolver: pass is finished, start a new pass")

type passState int

const (
	stateUninitialized passState = iota
	stateValidated
	stateResolved
	stateEmitted
	stateFailed
)

func (s passState) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateValidated:
		return "validated"
	case stateResolved:
		return "resolved"
	case stateEmitted:
		return "variables-emitted"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// Pass is one resolution invocation. Steps must run in order: Validate,
// Resolve, Dependencies, BuildVariables. Any failure is terminal; there is
// no rollback and no partial output. A Pass is not safe for concurrent use;
// run one pass per goroutine instead.
type Pass struct {
	r        *Resolver
	state    passState
	resolved options.Resolved
}

// NewPass starts a pass in the uninitialized state.
func (r *Resolver) NewPass() *Pass {
	return &Pass{r: r}
}

// State returns the pass state, mainly for diagnostics.
func (p *Pass) State() string { return p.state.String() }

func (p *Pass) require(want passState, step string) error {
	if p.state == stateFailed || p.state == stateEmitted {
		return ErrPassFinished
	}
	if p.state != want {
		return fmt.Errorf("resolver: %s called in state %s, want %s", step, p.state, want)
	}
	return nil
}

// Validate checks the toolchain constraints. First step of every pass.
func (p *Pass) Validate(env toolchain.Environment) error {
	if err := p.require(stateUninitialized, "validate"); err != nil {
		return err
	}
	if err := p.r.Validate(env); err != nil {
		p.state = stateFailed
		return err
	}
	p.state = stateValidated
	return nil
}

// Resolve overlays overrides onto the defaults. Requires a validated pass.
func (p *Pass) Resolve(overrides map[string]any) (options.Resolved, error) {
	if err := p.require(stateValidated, "resolve"); err != nil {
		return options.Resolved{}, err
	}
	resolved, err := p.r.Resolve(overrides)
	if err != nil {
		p.state = stateFailed
		return options.Resolved{}, err
	}
	p.resolved = resolved
	p.state = stateResolved
	return resolved, nil
}

// Dependencies computes the included dependency list. Requires a resolved
// pass; does not advance the state, so variables can still be emitted.
func (p *Pass) Dependencies() ([]deps.Spec, error) {
	if err := p.require(stateResolved, "dependencies"); err != nil {
		return nil, err
	}
	return p.r.Dependencies(p.resolved), nil
}

// BuildVariables emits the variable map and finishes the pass.
func (p *Pass) BuildVariables() (buildvars.Map, error) {
	if err := p.require(stateResolved, "build variables"); err != nil {
		return nil, err
	}
	vars := p.r.BuildVariables(p.resolved)
	p.state = stateEmitted
	return vars, nil
}
