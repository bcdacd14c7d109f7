package options

import "fmt"

// UnknownOptionError reports an override key that is not in the schema.
type UnknownOptionError struct {
	Name string // the offending key
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option %q", e.Name)
}

// InvalidValueError reports an override value outside its option's domain.
type InvalidValueError struct {
	Name   string // the offending key
	Value  string // the offending value
	Domain string // description of the allowed domain
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for option %q (allowed: %s)", e.Value, e.Name, e.Domain)
}
