package loader

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/launchkit/launch/core/launchctx"
	"github.com/launchkit/launch/core/launchentity"
	"github.com/launchkit/launch/core/launchsub"
	"github.com/launchkit/launch/core/process"
)

// loadConfig carries the handful of cross-cutting settings every built
// process.Action should inherit from config.Runtime, since the YAML
// description format itself has no per-process grace fields.
type loadConfig struct {
	sigintGrace  time.Duration
	sigtermGrace time.Duration
}

// LoadOption configures Load/Watch beyond what the YAML document itself
// specifies.
type LoadOption func(*loadConfig)

// WithShutdownGrace applies sigintGrace/sigtermGrace (core/config.Runtime's
// LAUNCH_SIGINT_GRACE / LAUNCH_SIGTERM_GRACE) to every process entity Load
// builds, so the configured escalation timing actually takes effect instead
// of falling back to core/process's own defaults. The option is applied only
// when both durations are positive.
func WithShutdownGrace(sigintGrace, sigtermGrace time.Duration) LoadOption {
	return func(c *loadConfig) {
		c.sigintGrace = sigintGrace
		c.sigtermGrace = sigtermGrace
	}
}

// Load parses a YAML launch description file into a Group entity wrapping
// every top-level node, ready to pass to service.LaunchService.IncludeLaunchDescription
// or core/launchctx.Context.Visit directly.
func Load(path string, opts ...LoadOption) (launchctx.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("loader: parse %s: %w", path, err)
	}

	var cfg loadConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	children, err := buildAll(doc.Entities, cfg)
	if err != nil {
		return nil, fmt.Errorf("loader: build %s: %w", path, err)
	}
	return launchentity.NewGroup(children...), nil
}

func buildAll(nodes []entityNode, cfg loadConfig) ([]launchctx.Entity, error) {
	out := make([]launchctx.Entity, 0, len(nodes))
	for i, n := range nodes {
		e, err := build(n, cfg)
		if err != nil {
			return nil, fmt.Errorf("entity[%d] (type=%q): %w", i, n.Type, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func build(n entityNode, cfg loadConfig) (launchctx.Entity, error) {
	switch n.Type {
	case "process":
		return buildProcess(n, cfg)
	case "group":
		children, err := buildAll(n.Children, cfg)
		if err != nil {
			return nil, err
		}
		return launchentity.NewGroup(children...), nil
	case "log_info":
		return launchentity.LogInfo{Message: n.Message}, nil
	case "emit_event":
		return launchentity.EmitEvent{Name: n.Event, Payload: n.Payload}, nil
	case "include":
		children, err := buildAll(n.Children, cfg)
		if err != nil {
			return nil, err
		}
		return launchentity.IncludeLaunchDescription{Description: launchentity.NewGroup(children...)}, nil
	default:
		return nil, fmt.Errorf("unknown entity type %q", n.Type)
	}
}

func buildProcess(n entityNode, cfg loadConfig) (launchctx.Entity, error) {
	if len(n.Cmd) == 0 {
		return nil, fmt.Errorf("process entity requires a non-empty cmd")
	}

	cmdTemplate := make([][]launchctx.Substitution, 0, len(n.Cmd))
	for i, tok := range n.Cmd {
		subs, err := tok.resolveAll()
		if err != nil {
			return nil, fmt.Errorf("cmd[%d]: %w", i, err)
		}
		cmdTemplate = append(cmdTemplate, subs)
	}

	opts := []process.Option{process.WithShell(n.Shell)}
	if n.Name != "" {
		opts = append(opts, process.WithName(n.Name))
	}
	if cfg.sigintGrace > 0 && cfg.sigtermGrace > 0 {
		opts = append(opts, process.WithShutdownGrace(cfg.sigintGrace, cfg.sigtermGrace))
	}
	if len(n.Cwd) > 0 {
		subs, err := n.Cwd.resolveAll()
		if err != nil {
			return nil, fmt.Errorf("cwd: %w", err)
		}
		opts = append(opts, process.WithCwd(subs))
	}
	if len(n.Env) > 0 {
		entries := make([]process.EnvEntry, 0, len(n.Env))
		for key, val := range n.Env {
			valSubs, err := val.resolveAll()
			if err != nil {
				return nil, fmt.Errorf("env[%s]: %w", key, err)
			}
			entries = append(entries, process.EnvEntry{
				Key:   []launchctx.Substitution{launchsub.Text(key)},
				Value: valSubs,
			})
		}
		opts = append(opts, process.WithEnv(entries...))
	}

	return process.New(cmdTemplate, opts...)
}
