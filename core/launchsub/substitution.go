// Package launchsub provides the minimal concrete Substitution
// implementations needed to exercise core/process and the YAML loader. The
// substitution *language* itself (a rich expression grammar over these) is
// out of scope per spec.md §1 — the core only ever consumes the
// `Resolve(ctx) -> string` contract declared in core/launchctx.
package launchsub

import (
	"context"
	"fmt"
	"os"

	"github.com/launchkit/launch/core/launchctx"
)

// Text is a literal string substitution; Resolve always returns the same
// value regardless of context.
type Text string

// Resolve implements launchctx.Substitution.
func (t Text) Resolve(_ context.Context, _ *launchctx.Context) (string, error) {
	return string(t), nil
}

// EnvVar resolves to the current value of an OS environment variable,
// falling back to Default when unset.
type EnvVar struct {
	Name    string
	Default string
}

// Resolve implements launchctx.Substitution.
func (e EnvVar) Resolve(_ context.Context, _ *launchctx.Context) (string, error) {
	if v, ok := os.LookupEnv(e.Name); ok {
		return v, nil
	}
	return e.Default, nil
}

// LaunchConfiguration reads a named value out of the LaunchContext's
// configuration store (see launchctx.Context.SetLaunchConfiguration), the Go
// analogue of the original source's `LaunchConfiguration` substitution
// (original_source/launch/launch/launch_context.py's
// `_launch_configurations`).
type LaunchConfiguration struct {
	Name         string
	DefaultValue string
	Required     bool
}

// Resolve implements launchctx.Substitution.
func (l LaunchConfiguration) Resolve(_ context.Context, lc *launchctx.Context) (string, error) {
	if v, ok := lc.LaunchConfiguration(l.Name); ok {
		return v, nil
	}
	if l.Required {
		return "", fmt.Errorf("launchsub: launch configuration %q not set", l.Name)
	}
	return l.DefaultValue, nil
}
