// Package logger provides structured logging utilities built on Go's standard slog package.
// It offers enhanced functionality including context-aware attribute extraction,
// environment-specific configurations, and a set of pre-built attributes for the
// event-loop and process logging done throughout core/launchctx and core/process.
//
// # Basic Usage
//
//	import "github.com/launchkit/launch/core/logger"
//
//	log := logger.New(
//		logger.WithDevelopment("launchctl"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Debug("dispatching event",
//		logger.EventName("launch.events.process.ProcessStarted"),
//		logger.QueueDepth(3),
//	)
//
// # Environment Configurations
//
//	devLogger := logger.New(logger.WithDevelopment("launchctl"))
//	prodLogger := logger.New(logger.WithProduction("launchctl"), logger.WithJSONFormatter())
//	stageLogger := logger.New(logger.WithStaging("launchctl"))
//
// # Context-Aware Logging
//
// Register extractors that pull attributes off a context automatically:
//
//	func spanExtractor(ctx context.Context) (slog.Attr, bool) {
//		if span := trace.SpanContextFromContext(ctx); span.IsValid() {
//			return slog.String("span_id", span.SpanID().String()), true
//		}
//		return slog.Attr{}, false
//	}
//
//	log := logger.New(
//		logger.WithProduction("launchctl"),
//		logger.WithContextExtractors(spanExtractor),
//	)
//	log.InfoContext(ctx, "processing event")
//
// # Process and Event Attributes
//
//	log.Info("process started",
//		logger.Process("web_server"),
//		logger.Cmd([]string{"/bin/echo", "hello"}),
//		logger.PID(1234),
//	)
//
//	log.Info("child exited",
//		logger.Process("web_server"),
//		logger.ReturnCode(0),
//	)
//
//	log.Warn("signal delivery failed",
//		logger.Process("web_server"),
//		logger.Signal(15),
//		logger.Error(err),
//	)
//
// # Global Logger Setup
//
//	func initLogging(env string) *slog.Logger {
//		switch env {
//		case "production":
//			return logger.New(logger.WithProduction("launchctl"), logger.WithJSONFormatter())
//		case "staging":
//			return logger.New(logger.WithStaging("launchctl"))
//		default:
//			return logger.New(logger.WithDevelopment("launchctl"))
//		}
//	}
package logger
