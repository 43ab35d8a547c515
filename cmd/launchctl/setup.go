package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/launchkit/launch/core/config"
	"github.com/launchkit/launch/core/launchctx"
	"github.com/launchkit/launch/core/logger"
	"github.com/launchkit/launch/core/metrics"
	"github.com/launchkit/launch/core/service"
	"github.com/launchkit/launch/core/tracing"
)

// runtime bundles everything a run/watch invocation needs, built once from
// config.Runtime plus whatever slog handler the caller wants attached (a
// plain text/JSON sink for `run`, a RingHandler for `watch`'s dashboard).
type runtime struct {
	cfg      config.Runtime
	logger   *slog.Logger
	metrics  *metrics.Collector
	tracer   *tracing.Provider
	lc       *launchctx.Context
	svc      *service.LaunchService
	ringLog  *logger.RingHandler
	stopHTTP func()
}

func newRuntime(withRing bool) (*runtime, error) {
	var cfg config.Runtime
	if err := config.Load(&cfg); err != nil {
		return nil, fmt.Errorf("launchctl: loading config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	var l *slog.Logger
	var ring *logger.RingHandler
	if withRing {
		ring = logger.NewRingHandler(500)
		l = slog.New(ring)
	} else {
		opts := []logger.Option{logger.WithLevel(level)}
		if cfg.LogFormat == "json" {
			opts = append(opts, logger.WithJSONFormatter())
		}
		opts = append(opts, logger.WithOutput(os.Stdout))
		l = logger.New(opts...)
	}

	tp, err := tracing.NewProvider(tracing.Config{
		Enabled:      cfg.OTLPEndpoint != "",
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   1.0,
		ServiceName:  "launchctl",
	})
	if err != nil {
		return nil, fmt.Errorf("launchctl: starting tracer: %w", err)
	}

	mc := metrics.New()

	lc := launchctx.New(
		launchctx.WithQueueCapacity(cfg.QueueBufferSize),
		launchctx.WithLogger(l),
		launchctx.WithTracer(tp.Tracer()),
		launchctx.WithMetrics(mc),
	)

	r := &runtime{
		cfg:     cfg,
		logger:  l,
		metrics: mc,
		tracer:  tp,
		lc:      lc,
		svc:     service.New(lc),
		ringLog: ring,
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", mc.Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			_ = srv.ListenAndServe()
		}()
		r.stopHTTP = func() { _ = srv.Close() }
	}

	return r, nil
}

func (r *runtime) close() {
	if r.stopHTTP != nil {
		r.stopHTTP()
	}
}
