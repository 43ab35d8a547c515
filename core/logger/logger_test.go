package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/launchkit/launch/core/logger"
)

func TestNew_DefaultsToDiscard(t *testing.T) {
	l := logger.New()
	assert.NotPanics(t, func() { l.Info("anything") })
}

func TestNew_WithOutputWritesText(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelInfo))
	l.Info("hello")

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.True(t, strings.HasPrefix(out, "time="))
}

func TestNew_WithJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.WithOutput(&buf), logger.WithJSONFormatter(), logger.WithLevel(slog.LevelInfo))
	l.Info("hello")

	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestNew_WithLevelFiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
	l.Info("should be dropped")
	l.Warn("should appear")

	out := buf.String()
	assert.NotContains(t, out, "should be dropped")
	assert.Contains(t, out, "should appear")
}

func TestNew_WithAttrAttachesToEveryRecord(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.WithOutput(&buf), logger.WithAttr(slog.String("service", "launchctl")))
	l.Info("hello")

	assert.Contains(t, buf.String(), "service=launchctl")
}

type requestIDKey struct{}

func TestNew_WithContextExtractorsAddsAttribute(t *testing.T) {
	var buf bytes.Buffer
	extractor := func(ctx context.Context) (slog.Attr, bool) {
		v, ok := ctx.Value(requestIDKey{}).(string)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.String("request_id", v), true
	}

	l := logger.New(logger.WithOutput(&buf), logger.WithContextExtractors(extractor))

	ctx := context.WithValue(context.Background(), requestIDKey{}, "abc-123")
	l.InfoContext(ctx, "handled")

	assert.Contains(t, buf.String(), "request_id=abc-123")
}
