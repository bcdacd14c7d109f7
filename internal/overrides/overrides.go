// Package overrides collects user option overrides from the CLI's input
// sources: an overrides YAML file, CONFER_OPT_* environment variables and
// key=value command-line arguments. Validation against the schema happens in
// the resolver, not here; this package only shapes the raw input.
package overrides

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables carrying option overrides.
// CONFER_OPT_BUILD_TESTS=true overrides the build_tests option.
const EnvPrefix = "CONFER_OPT_"

// FromArgs parses key=value arguments.
func FromArgs(args []string) (map[string]any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("overrides: malformed option %q, want key=value", arg)
		}
		out[key] = value
	}
	return out, nil
}

// FromFile reads a flat YAML mapping of option name to value. Values must be
// scalars; booleans stay booleans, everything else becomes a string.
func FromFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("overrides: parse %s: %w", path, err)
	}
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case bool:
			out[key] = v
		case string:
			out[key] = v
		case int, int64, float64:
			out[key] = fmt.Sprint(v)
		case nil:
			out[key] = ""
		default:
			return nil, fmt.Errorf("overrides: option %q in %s is not a scalar", key, path)
		}
	}
	return out, nil
}

// FromEnv extracts overrides from an environment list as produced by
// os.Environ. CONFER_OPT_<NAME>=<value> overrides the option named by the
// lowercased <NAME>.
func FromEnv(environ []string) map[string]any {
	var out map[string]any
	for _, kv := range environ {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}
		key, value, ok := strings.Cut(strings.TrimPrefix(kv, EnvPrefix), "=")
		if !ok || key == "" {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[strings.ToLower(key)] = value
	}
	return out
}

// Merge overlays the given layers left to right; later layers win.
func Merge(layers ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, layer := range layers {
		for key, value := range layer {
			out[key] = value
		}
	}
	return out
}
