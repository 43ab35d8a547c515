// Package loader parses a YAML launch description into the built-in
// core/launchentity set and can watch that file for changes, re-emitting an
// IncludeLaunchDescription event on every edit (spec.md §4.H).
package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/launchkit/launch/core/launchctx"
	"github.com/launchkit/launch/core/launchsub"
)

// document is the top-level shape of a launch description file.
type document struct {
	Entities []entityNode `yaml:"entities"`
}

// entityNode is a discriminated union over the built-in entity set, keyed
// by its "type" field. Only the fields relevant to that type need be set;
// yaml.v3 silently ignores the rest.
type entityNode struct {
	Type string `yaml:"type"`

	// process
	Name  string            `yaml:"name"`
	Cmd   []subSeq          `yaml:"cmd"`
	Cwd   subSeq            `yaml:"cwd"`
	Env   map[string]subSeq `yaml:"env"`
	Shell bool              `yaml:"shell"`

	// log_info
	Message string `yaml:"message"`

	// emit_event
	Event   string `yaml:"event"`
	Payload string `yaml:"payload"`

	// group / include
	Children []entityNode `yaml:"children"`
}

// subSeq is a list of substitutions forming one argv/cwd/env-value entry,
// concatenated on resolve per spec.md §4.D.2. A bare scalar or mapping
// unmarshals as a one-element sequence; an explicit YAML sequence
// concatenates each of its elements in order.
type subSeq []subNode

// UnmarshalYAML accepts a scalar, a single mapping, or a sequence of either.
func (s *subSeq) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var nodes []subNode
		if err := value.Decode(&nodes); err != nil {
			return fmt.Errorf("loader: decode substitution sequence: %w", err)
		}
		*s = nodes
		return nil
	}
	var n subNode
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("loader: decode substitution: %w", err)
	}
	*s = subSeq{n}
	return nil
}

// resolveAll converts s into the []launchctx.Substitution that
// core/process.Option and launchsub consumers expect.
func (s subSeq) resolveAll() ([]launchctx.Substitution, error) {
	out := make([]launchctx.Substitution, 0, len(s))
	for _, n := range s {
		sub, err := n.resolve()
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

// subNode is one substitution: a bare YAML scalar is a literal Text; a
// mapping selects env_var or launch_config.
type subNode struct {
	Text         *string           `yaml:"-"`
	EnvVar       *envVarNode       `yaml:"env_var"`
	LaunchConfig *launchConfigNode `yaml:"launch_config"`
}

type envVarNode struct {
	Name    string `yaml:"name"`
	Default string `yaml:"default"`
}

type launchConfigNode struct {
	Name     string `yaml:"name"`
	Default  string `yaml:"default"`
	Required bool   `yaml:"required"`
}

// UnmarshalYAML lets subNode accept either a bare scalar (literal text) or a
// mapping naming env_var/launch_config.
func (n *subNode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s := value.Value
		n.Text = &s
		return nil
	}
	type alias subNode
	var a alias
	if err := value.Decode(&a); err != nil {
		return fmt.Errorf("loader: decode substitution: %w", err)
	}
	*n = subNode(a)
	return nil
}

// resolve builds the launchctx.Substitution this node represents.
func (n subNode) resolve() (launchctx.Substitution, error) {
	switch {
	case n.Text != nil:
		return launchsub.Text(*n.Text), nil
	case n.EnvVar != nil:
		return launchsub.EnvVar{Name: n.EnvVar.Name, Default: n.EnvVar.Default}, nil
	case n.LaunchConfig != nil:
		return launchsub.LaunchConfiguration{
			Name:         n.LaunchConfig.Name,
			DefaultValue: n.LaunchConfig.Default,
			Required:     n.LaunchConfig.Required,
		}, nil
	default:
		return nil, fmt.Errorf("loader: substitution node has no recognized variant")
	}
}
