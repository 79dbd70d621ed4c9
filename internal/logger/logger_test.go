package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, format string) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = NewColorTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}, false)
	}
	l := &Logger{slogger: slog.New(handler)}
	l.enabled.Store(true)
	l.level.Store(int32(LevelDebug))
	return l, buf
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Run("BelowThresholdIsDropped", func(t *testing.T) {
		l, buf := newTestLogger(t, "text")
		l.level.Store(int32(LevelWarn))

		l.Info("should not appear")
		l.Warn("should appear")

		out := buf.String()
		assert.NotContains(t, out, "should not appear")
		assert.Contains(t, out, "should appear")
	})

	t.Run("DisabledLoggerDropsEverything", func(t *testing.T) {
		l, buf := newTestLogger(t, "text")
		l.enabled.Store(false)

		l.Error("never logged", KeyName, "aircraft/0/alt")

		assert.Empty(t, buf.String())
	})
}

func TestLogger_JSONFormat(t *testing.T) {
	l, buf := newTestLogger(t, "json")

	l.Info("decoded frame", KeyCommandID, int32(1), KeyName, "aircraft/0/alt")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "decoded frame", record["msg"])
	assert.Equal(t, float64(1), record[KeyCommandID])
	assert.Equal(t, "aircraft/0/alt", record[KeyName])
}

func TestLogger_ContextFieldsInjected(t *testing.T) {
	l, buf := newTestLogger(t, "text")

	lc := NewLogContext("poll").WithName("aircraft/0/alt").WithCommandID(1)
	ctx := WithContext(t.Context(), lc)

	l.InfoCtx(ctx, "poll dispatched")

	out := buf.String()
	assert.True(t, strings.Contains(out, KeySession+"=poll"))
	assert.True(t, strings.Contains(out, KeyName+"=aircraft/0/alt"))
	assert.True(t, strings.Contains(out, KeyCommandID+"=1"))
}

func TestNewDiscard(t *testing.T) {
	l := NewDiscard()
	require.NotNil(t, l)
	l.Error("dropped", "k", "v") // must not panic
}
