package internal

import (
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/confbuild/confer/deps"
	"github.com/confbuild/confer/options"
	"github.com/confbuild/confer/resolver"
)

// The resolver's outputs are ordered; encoding through yaml.Node keeps that
// order instead of letting map marshaling sort keys.

func scalarNode(value string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	if value == "" {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

func mappingNode(pairs ...[2]*yaml.Node) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range pairs {
		n.Content = append(n.Content, p[0], p[1])
	}
	return n
}

func pair(key string, value *yaml.Node) [2]*yaml.Node {
	return [2]*yaml.Node{scalarNode(key), value}
}

func optionsNode(resolved options.Resolved) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range resolved.Names() {
		n.Content = append(n.Content, scalarNode(name), scalarNode(resolved.Value(name)))
	}
	return n
}

func depsNode(specs []deps.Spec) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, spec := range specs {
		pairs := [][2]*yaml.Node{
			pair("name", scalarNode(spec.Path)),
			pair("version", scalarNode(spec.Version.Version)),
		}
		if len(spec.Options) > 0 {
			keys := make([]string, 0, len(spec.Options))
			for k := range spec.Options {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			sub := &yaml.Node{Kind: yaml.MappingNode}
			for _, k := range keys {
				sub.Content = append(sub.Content, scalarNode(k), scalarNode(spec.Options[k]))
			}
			pairs = append(pairs, pair("options", sub))
		}
		n.Content = append(n.Content, mappingNode(pairs...))
	}
	return n
}

func varsNode(res *resolver.Result) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, v := range res.Variables {
		n.Content = append(n.Content, scalarNode(v.Key), scalarNode(v.Value))
	}
	return n
}

func writeResult(w io.Writer, res *resolver.Result) error {
	doc := mappingNode(
		pair("options", optionsNode(res.Options)),
		pair("dependencies", depsNode(res.Dependencies)),
		pair("variables", varsNode(res)),
	)
	return writeYAML(w, doc)
}

func writeYAML(w io.Writer, node *yaml.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return err
	}
	return enc.Close()
}
