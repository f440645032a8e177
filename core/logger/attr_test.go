package logger_test

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azim128/LiveDataStream/core/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

// ============================================================================
// Error Handling Tests
// ============================================================================

func TestErrors(t *testing.T) {
	t.Parallel()
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "0", g[0].Key)
	assert.Equal(t, "2", g[1].Key)
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

// ============================================================================
// Timing Tests
// ============================================================================

func TestTiming(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "duration", logger.Duration(time.Second).Key)
	assert.Equal(t, time.Second, logger.Latency(time.Second).Value.Duration())

	elapsed := logger.Elapsed(time.Now().Add(-time.Minute))
	assert.Equal(t, "elapsed", elapsed.Key)
	assert.GreaterOrEqual(t, elapsed.Value.Duration(), time.Minute)
}

// ============================================================================
// Empty-Input Tests
// ============================================================================

func TestEmptyInputsYieldEmptyAttr(t *testing.T) {
	t.Parallel()

	for name, attr := range map[string]slog.Attr{
		"request_id":    logger.RequestID(""),
		"client_ip":     logger.ClientIP(""),
		"user_agent":    logger.UserAgent(""),
		"subscriber_id": logger.SubscriberID(""),
		"channel":       logger.Channel(""),
	} {
		assert.True(t, attr.Equal(slog.Attr{}), name)
	}
}

func TestKeyedAttrs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attr slog.Attr
		key  string
		want any
	}{
		{logger.RequestID("r1"), "request_id", "r1"},
		{logger.Method("POST"), "method", "POST"},
		{logger.Path("/add-value"), "path", "/add-value"},
		{logger.StatusCode(200), "status_code", int64(200)},
		{logger.ClientIP("10.0.0.1"), "client_ip", "10.0.0.1"},
		{logger.BytesOut(42), "bytes_out", int64(42)},
		{logger.SubscriberID("abc"), "subscriber_id", "abc"},
		{logger.Subscribers(3), "subscribers", int64(3)},
		{logger.Channel("livestream:values"), "channel", "livestream:values"},
		{logger.Component("relay"), "component", "relay"},
		{logger.Event("startup"), "event", "startup"},
		{logger.Count("dropped", 5), "dropped", int64(5)},
		{logger.Version("1.0.0"), "version", "1.0.0"},
		{logger.RetryCount(2), "retry_count", int64(2)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.key, tt.attr.Key)
		assert.Equal(t, tt.want, tt.attr.Value.Any(), tt.key)
	}
}

func TestStack(t *testing.T) {
	t.Parallel()
	attr := logger.Stack()
	assert.Equal(t, "stack", attr.Key)
	assert.True(t, strings.Contains(attr.Value.String(), "TestStack"))
}
