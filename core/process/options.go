package process

import (
	"log/slog"
	"time"

	"github.com/launchkit/launch/core/launchctx"
)

// EnvEntry is one environment variable assignment, where both the key and
// the value are substitution sequences concatenated per spec.md §4.D.2.
type EnvEntry struct {
	Key   []launchctx.Substitution
	Value []launchctx.Substitution
}

// Option configures an Action at construction. All configuration is frozen
// once Execute begins resolving substitutions.
type Option func(*Action)

// WithCwd sets the working-directory template. Unset means inherit the
// parent's cwd.
func WithCwd(seq []launchctx.Substitution) Option {
	return func(a *Action) { a.cwdTemplate = seq; a.hasCwd = true }
}

// WithEnv sets the environment template. Unset means inherit the parent
// environment; once set, the resolved map is the exact environment passed
// to the child (spec.md §6).
func WithEnv(entries ...EnvEntry) Option {
	return func(a *Action) { a.envTemplate = entries; a.hasEnv = true }
}

// WithShell runs the resolved command through the platform shell, joining
// finalCmd with spaces.
func WithShell(shell bool) Option {
	return func(a *Action) { a.shell = shell }
}

// WithName attaches a human-readable label used only for logging.
func WithName(name string) Option {
	return func(a *Action) { a.name = name }
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Action) { a.logger = l }
}

// WithShutdownGrace overrides the SIGINT and SIGTERM grace periods used by
// the ShutdownProcess escalation (spec.md §4.D.4). Defaults are 5s and 2s.
func WithShutdownGrace(sigintGrace, sigtermGrace time.Duration) Option {
	return func(a *Action) {
		a.sigintGrace = sigintGrace
		a.sigtermGrace = sigtermGrace
	}
}
