// Package tracing configures the OpenTelemetry tracer used by
// core/launchctx.Context to span each dispatch turn. Grounded on
// zjrosen-perles/internal/orchestration/tracing's Provider (exporter
// selection by string, ParentBased/TraceIDRatioBased sampling, a no-op
// fallback when disabled), trimmed to the two exporters this module's go.mod
// actually carries: stdout (development) and OTLP/HTTP (production).
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Config configures the tracing subsystem.
type Config struct {
	// Enabled controls whether tracing is active; a disabled Provider
	// returns the package-level no-op tracer at zero cost.
	Enabled bool

	// OTLPEndpoint, when non-empty, selects the OTLP/HTTP exporter pointed
	// at this collector instead of the default stdout exporter.
	OTLPEndpoint string

	// SampleRate is the fraction of traces sampled (1.0 = all).
	SampleRate float64

	// ServiceName identifies this process in exported spans.
	ServiceName string
}

// DefaultConfig returns sensible development defaults: tracing off, stdout
// exporter if it were turned on, sample everything.
func DefaultConfig() Config {
	return Config{
		Enabled:     false,
		SampleRate:  1.0,
		ServiceName: "launchctl",
	}
}

// Provider manages the OpenTelemetry tracer provider for a launchctl run.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	enabled  bool
}

// NewProvider creates and configures the trace provider. If cfg.Enabled is
// false, a no-op provider is returned with zero overhead.
func NewProvider(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		noopProvider := trace.NewNoopTracerProvider()
		return &Provider{tracer: noopProvider.Tracer("noop")}, nil
	}

	var exporter sdktrace.SpanExporter
	var err error
	if cfg.OTLPEndpoint != "" {
		exporter, err = otlptracehttp.New(context.Background(),
			otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("tracing: create otlp exporter: %w", err)
		}
	} else {
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("tracing: create stdout exporter: %w", err)
		}
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "launchctl"
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}
	sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate))

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)

	return &Provider{
		provider: provider,
		tracer:   provider.Tracer(serviceName),
		enabled:  true,
	}, nil
}

// Tracer returns the configured tracer, safe to pass to
// launchctx.WithTracer even when tracing is disabled.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled reports whether this Provider is backed by a real exporter.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Shutdown flushes pending spans before the process exits.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider != nil {
		return p.provider.Shutdown(ctx)
	}
	return nil
}
