// Package options implements the typed option schema and its resolution.
//
// A Schema is an ordered set of named options, each with a closed value
// domain and a default. Resolving overlays caller-supplied overrides onto the
// defaults, validating every value against its domain at this single
// boundary. The resolved set is immutable once produced.
package options

import (
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------

// Domain is the closed set of values an option may take.
type Domain interface {
	// Contains reports whether value lies in the domain.
	Contains(value string) bool

	// String describes the domain for error messages.
	String() string

	// canonicalize maps accepted spellings to the canonical value.
	canonicalize(value string) (string, bool)
}

type boolDomain struct{}

// Bool returns the boolean domain. Accepted spellings follow CMake:
// true/false, on/off and 1/0, case-insensitive; the canonical forms
// are "true" and "false".
func Bool() Domain { return boolDomain{} }

func (boolDomain) Contains(value string) bool {
	_, ok := boolDomain{}.canonicalize(value)
	return ok
}

func (boolDomain) String() string { return "true|false" }

func (boolDomain) canonicalize(value string) (string, bool) {
	switch strings.ToLower(value) {
	case "true", "on", "1":
		return "true", true
	case "false", "off", "0":
		return "false", true
	}
	return "", false
}

type enumDomain struct {
	values []string
}

// Enum returns a domain containing exactly the given values.
func Enum(values ...string) Domain {
	return enumDomain{values: values}
}

func (d enumDomain) Contains(value string) bool {
	_, ok := d.canonicalize(value)
	return ok
}

func (d enumDomain) String() string { return strings.Join(d.values, "|") }

func (d enumDomain) canonicalize(value string) (string, bool) {
	for _, v := range d.values {
		if v == value {
			return v, true
		}
	}
	return "", false
}

type anyDomain struct{}

// Any returns the free-form string domain. The empty string is the
// "unset" sentinel for options with this domain.
func Any() Domain { return anyDomain{} }

func (anyDomain) Contains(string) bool { return true }

func (anyDomain) String() string { return "any string" }

func (anyDomain) canonicalize(value string) (string, bool) { return value, true }

// IsBool reports whether d is the boolean domain.
func IsBool(d Domain) bool {
	_, ok := d.(boolDomain)
	return ok
}

// -----------------------------------------------------------------------------

// Option declares one schema entry.
type Option struct {
	Name    string
	Domain  Domain
	Default string
}

// Schema is an ordered, immutable option table.
type Schema struct {
	opts  []Option
	index map[string]int
}

// New builds a Schema from the given declarations. It fails on duplicate
// option names and on defaults that lie outside their declared domain.
func New(opts ...Option) (*Schema, error) {
	s := &Schema{
		opts:  make([]Option, 0, len(opts)),
		index: make(map[string]int, len(opts)),
	}
	for _, opt := range opts {
		if opt.Name == "" {
			return nil, fmt.Errorf("options: option with empty name")
		}
		if opt.Domain == nil {
			return nil, fmt.Errorf("options: option %q has no domain", opt.Name)
		}
		if _, dup := s.index[opt.Name]; dup {
			return nil, fmt.Errorf("options: duplicate option %q", opt.Name)
		}
		canon, ok := opt.Domain.canonicalize(opt.Default)
		if !ok {
			return nil, fmt.Errorf("options: default %q for option %q outside domain %s",
				opt.Default, opt.Name, opt.Domain)
		}
		opt.Default = canon
		s.index[opt.Name] = len(s.opts)
		s.opts = append(s.opts, opt)
	}
	return s, nil
}

// MustNew is like New but panics on error. Intended for declared tables
// whose consistency is covered by tests.
func MustNew(opts ...Option) *Schema {
	s, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of declared options.
func (s *Schema) Len() int { return len(s.opts) }

// Names returns option names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.opts))
	for i, opt := range s.opts {
		names[i] = opt.Name
	}
	return names
}

// Lookup returns the declaration of a named option.
func (s *Schema) Lookup(name string) (Option, bool) {
	i, ok := s.index[name]
	if !ok {
		return Option{}, false
	}
	return s.opts[i], true
}

// Resolve overlays overrides onto the schema defaults. Override values may be
// strings or bools; bools are coerced to the canonical boolean spelling.
// Keys not present in the schema fail with UnknownOptionError; values outside
// their option's domain fail with InvalidValueError. Keys absent from
// overrides take the schema default.
func (s *Schema) Resolve(overrides map[string]any) (Resolved, error) {
	values := make(map[string]string, len(s.opts))
	for _, opt := range s.opts {
		values[opt.Name] = opt.Default
	}
	for name, raw := range overrides {
		opt, ok := s.Lookup(name)
		if !ok {
			return Resolved{}, &UnknownOptionError{Name: name}
		}
		var value string
		switch v := raw.(type) {
		case string:
			value = v
		case bool:
			if v {
				value = "true"
			} else {
				value = "false"
			}
		default:
			return Resolved{}, &InvalidValueError{
				Name:   name,
				Value:  fmt.Sprint(raw),
				Domain: opt.Domain.String(),
			}
		}
		canon, ok := opt.Domain.canonicalize(value)
		if !ok {
			return Resolved{}, &InvalidValueError{
				Name:   name,
				Value:  value,
				Domain: opt.Domain.String(),
			}
		}
		values[name] = canon
	}
	return Resolved{schema: s, values: values}, nil
}

// -----------------------------------------------------------------------------

// Resolved is an immutable option name to value mapping produced by
// Schema.Resolve. The zero value is empty and resolves nothing.
type Resolved struct {
	schema *Schema
	values map[string]string
}

// Value returns the resolved value of a named option, or the empty string
// if the option is not in the schema.
func (r Resolved) Value(name string) string {
	return r.values[name]
}

// Lookup returns the resolved value of a named option and whether the
// option exists in the schema.
func (r Resolved) Lookup(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Bool reports whether a boolean option resolved to true.
func (r Resolved) Bool(name string) bool {
	return r.values[name] == "true"
}

// IsSet reports whether the option holds a non-empty value. Options with a
// free-form domain use the empty string as the "unset" sentinel.
func (r Resolved) IsSet(name string) bool {
	return r.values[name] != ""
}

// Names returns the option names in schema declaration order.
func (r Resolved) Names() []string {
	if r.schema == nil {
		return nil
	}
	return r.schema.Names()
}

// AsOverrides returns the resolved values as an override mapping. Resolving
// the result against the same schema reproduces r exactly.
func (r Resolved) AsOverrides() map[string]any {
	out := make(map[string]any, len(r.values))
	for name, value := range r.values {
		out[name] = value
	}
	return out
}
