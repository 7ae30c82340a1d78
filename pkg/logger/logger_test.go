package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestLoggingBeforeAndAfterInit(t *testing.T) {
	assert.NotPanics(t, func() { Info("before init") })

	InitLogger("error", nil)
	t.Cleanup(func() { InitLogger("info", nil) })

	assert.False(t, defaultLogger.slogger.Enabled(context.Background(), slog.LevelInfo))
	assert.NotPanics(t, func() {
		Debug("dropped")
		Warn("dropped")
		Error("kept", errors.New("boom"), "numero", "1")
	})
}

func TestInitLoggerWritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	InitLogger("info", &buf)
	t.Cleanup(func() { InitLogger("info", nil) })

	Debug("hidden")
	Warn("shown", "numero", "12345")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "numero=12345")
	assert.Contains(t, out, "source=logger_test.go:")
}
