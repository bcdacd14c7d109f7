// Package buildvars maps resolved options to the variable set consumed by
// the native build invocation.
//
// The mapping is a declared table: each schema option owns one rule, and a
// rule fans out to zero or more variable emissions. Keeping the fan-out in
// the table (rather than in conditional logic) lets the resolver check the
// table's consistency before any pass runs.
package buildvars

import (
	"github.com/confbuild/confer/options"
)

// -----------------------------------------------------------------------------

// Var is one build-system variable.
type Var struct {
	Key   string
	Value string
}

// Map is an ordered sequence of build variables. Order follows the mapping
// table's declaration order and is stable across passes.
type Map []Var

// Lookup returns the value of a key, if emitted.
func (m Map) Lookup(key string) (string, bool) {
	for _, v := range m {
		if v.Key == key {
			return v.Value, true
		}
	}
	return "", false
}

// Keys returns the emitted keys in order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, v := range m {
		keys[i] = v.Key
	}
	return keys
}

// -----------------------------------------------------------------------------

// Emission produces build variables from one resolved option value.
type Emission interface {
	// emit returns the variables contributed for the canonical option value.
	emit(value string) []Var

	// Keys returns every variable key the emission can produce.
	Keys() []string
}

type boolVar struct {
	key string
}

// BoolVar emits key=ON or key=OFF from a boolean option.
func BoolVar(key string) Emission { return boolVar{key: key} }

func (e boolVar) emit(value string) []Var {
	v := "OFF"
	if value == "true" {
		v = "ON"
	}
	return []Var{{Key: e.key, Value: v}}
}

func (e boolVar) Keys() []string { return []string{e.key} }

type stringVar struct {
	key string
}

// StringVar emits key=value from a string option. An empty value is the
// "unset" sentinel and contributes no variable.
func StringVar(key string) Emission { return stringVar{key: key} }

func (e stringVar) emit(value string) []Var {
	if value == "" {
		return nil
	}
	return []Var{{Key: e.key, Value: value}}
}

func (e stringVar) Keys() []string { return []string{e.key} }

type fixedWhenTrue struct {
	key   string
	value string
}

// FixedWhenTrue emits key=value only while the owning boolean option is
// true. This is the fan-out building block: a single option may carry
// several FixedWhenTrue emissions (e.g. a compiler-launcher option setting
// both launcher variables plus the debug-info format they require).
func FixedWhenTrue(key, value string) Emission {
	return fixedWhenTrue{key: key, value: value}
}

func (e fixedWhenTrue) emit(value string) []Var {
	if value != "true" {
		return nil
	}
	return []Var{{Key: e.key, Value: e.value}}
}

func (e fixedWhenTrue) Keys() []string { return []string{e.key} }

// -----------------------------------------------------------------------------

// Rule binds one schema option to its variable emissions. A rule with no
// emissions declares that the option deliberately contributes nothing.
type Rule struct {
	Option string
	Emit   []Emission
}

// Mapping is the declared option-to-variable table, in emission order.
type Mapping []Rule

// Options returns the option names the mapping covers, in table order.
func (m Mapping) Options() []string {
	names := make([]string, len(m))
	for i, r := range m {
		names[i] = r.Option
	}
	return names
}

// Keys returns every variable key the mapping can emit, in table order.
func (m Mapping) Keys() []string {
	var keys []string
	for _, r := range m {
		for _, e := range r.Emit {
			keys = append(keys, e.Keys()...)
		}
	}
	return keys
}

// Apply derives the build variable map from the resolved option set. It is a
// pure function of resolved: rules are evaluated in table order and consult
// only their own option's value.
func (m Mapping) Apply(resolved options.Resolved) Map {
	var out Map
	for _, r := range m {
		value := resolved.Value(r.Option)
		for _, e := range r.Emit {
			out = append(out, e.emit(value)...)
		}
	}
	return out
}
