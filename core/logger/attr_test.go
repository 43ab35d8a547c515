package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/launchkit/launch/core/logger"
)

func TestAttr_DomainHelpersProduceExpectedKeys(t *testing.T) {
	assert.Equal(t, slog.String("process", "echo"), logger.Process("echo"))
	assert.Equal(t, slog.String("event_name", "launch.events.process.ProcessStarted"), logger.EventName("launch.events.process.ProcessStarted"))
	assert.Equal(t, slog.Int("pid", 1234), logger.PID(1234))
	assert.Equal(t, slog.Int("return_code", 0), logger.ReturnCode(0))
	assert.Equal(t, slog.Int("signal", 15), logger.Signal(15))
	assert.Equal(t, slog.String("cmd", "echo hello"), logger.Cmd([]string{"echo", "hello"}))
	assert.Equal(t, slog.Int("queue_depth", 3), logger.QueueDepth(3))
}

func TestAttr_HandlerNameIsEmptyWhenUnnamed(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.HandlerName(""))
	assert.Equal(t, slog.String("handler", "LaunchService.onShutdown"), logger.HandlerName("LaunchService.onShutdown"))
}

func TestAttr_ErrorIsEmptyForNil(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.Error(nil))

	boom := errors.New("boom")
	assert.Equal(t, slog.Any("error", boom), logger.Error(boom))
}

func TestAttr_ElapsedReportsPositiveDuration(t *testing.T) {
	start := time.Now().Add(-10 * time.Millisecond)
	attr := logger.Elapsed(start)
	assert.Equal(t, "elapsed", attr.Key)
	assert.GreaterOrEqual(t, attr.Value.Duration(), 10*time.Millisecond)
}

func TestAttr_GroupNestsAttrsUnderOneKey(t *testing.T) {
	attr := logger.Group("process", logger.Process("echo"), logger.ReturnCode(0))
	assert.Equal(t, "process", attr.Key)
	assert.Equal(t, slog.KindGroup, attr.Value.Kind())
}

func TestAttr_StackIncludesCurrentFunction(t *testing.T) {
	attr := logger.Stack()
	assert.Equal(t, "stack", attr.Key)
	assert.Contains(t, attr.Value.String(), "TestAttr_StackIncludesCurrentFunction")
}

func TestAttr_CountUsesGivenKey(t *testing.T) {
	assert.Equal(t, slog.Int("bytes", 42), logger.Count("bytes", 42))
}
