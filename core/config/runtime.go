package config

import "time"

// Runtime holds the environment-driven knobs for a launchctl process: queue
// sizing, the shutdown escalation grace periods, and logging. Load it with
// config.MustLoad(&cfg) at program start.
type Runtime struct {
	// QueueBufferSize bounds the event queue; 0 (the default) is unbounded,
	// at which point EmitEvent and EmitEventSync behave identically.
	QueueBufferSize int `env:"LAUNCH_QUEUE_BUFFER_SIZE" envDefault:"0"`

	// SigintGrace and SigtermGrace are the per-escalation-step wait before
	// sending the next, harsher signal (spec.md §4.D.4).
	SigintGrace  time.Duration `env:"LAUNCH_SIGINT_GRACE" envDefault:"5s"`
	SigtermGrace time.Duration `env:"LAUNCH_SIGTERM_GRACE" envDefault:"5s"`

	LogLevel  string `env:"LAUNCH_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LAUNCH_LOG_FORMAT" envDefault:"text"`

	// MetricsAddr, when non-empty, is the address a Prometheus /metrics
	// handler is served on by cmd/launchctl.
	MetricsAddr string `env:"LAUNCH_METRICS_ADDR" envDefault:""`

	// OTLPEndpoint, when non-empty, makes cmd/launchctl enable core/tracing
	// with an OTLP/HTTP exporter pointed at this collector; when empty,
	// cmd/launchctl runs with tracing disabled.
	OTLPEndpoint string `env:"LAUNCH_OTLP_ENDPOINT" envDefault:""`
}
