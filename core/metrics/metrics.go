// Package metrics implements launchctx.MetricsSink against Prometheus
// collectors, grounded on the promauto/registry pattern in
// afewell-hh-hh-netbox-plugin's cnoc/internal/monitoring package — trimmed
// down from that package's full HTTP/business-metrics surface to the five
// counters/gauges spec.md's dispatch loop and process lifecycle actually
// produce.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements core/launchctx.MetricsSink.
type Collector struct {
	registry *prometheus.Registry

	eventsProcessed  prometheus.Counter
	eventsFailed     prometheus.Counter
	processesStarted prometheus.Counter
	processesRunning prometheus.Gauge
	processExits     *prometheus.CounterVec
}

// New creates a Collector registered against its own Prometheus registry
// (not the global default, so a process can run more than one Context under
// test without colliding metric names).
func New() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		eventsProcessed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "launch_events_processed_total",
			Help: "Total number of events successfully dispatched.",
		}),
		eventsFailed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "launch_events_failed_total",
			Help: "Total number of events whose dispatch raised a handler error.",
		}),
		processesStarted: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "launch_processes_started_total",
			Help: "Total number of child processes successfully spawned.",
		}),
		processesRunning: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "launch_processes_running",
			Help: "Current number of live child processes.",
		}),
		processExits: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "launch_process_exits_total",
			Help: "Total number of child process exits, labeled by whether the exit was clean.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(prometheus.NewGoCollector())
	return c
}

// EventProcessed implements launchctx.MetricsSink.
func (c *Collector) EventProcessed() { c.eventsProcessed.Inc() }

// EventFailed implements launchctx.MetricsSink.
func (c *Collector) EventFailed() { c.eventsFailed.Inc() }

// ProcessStarted implements launchctx.MetricsSink.
func (c *Collector) ProcessStarted() {
	c.processesStarted.Inc()
	c.processesRunning.Inc()
}

// ProcessExited implements launchctx.MetricsSink.
func (c *Collector) ProcessExited(returnCode int) {
	c.processesRunning.Dec()
	outcome := "failed"
	if returnCode == 0 {
		outcome = "clean"
	}
	c.processExits.WithLabelValues(outcome).Inc()
}

// ProcessFailed implements launchctx.MetricsSink. It counts a child that
// never made it to the running state, without touching the running gauge
// ProcessStarted/ProcessExited otherwise keep balanced.
func (c *Collector) ProcessFailed() {
	c.processExits.WithLabelValues("failed").Inc()
}

// Handler returns the /metrics HTTP handler cmd/launchctl serves when
// LAUNCH_METRICS_ADDR is configured.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
