package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var timeZero time.Time

type failingHandler struct{ slog.Handler }

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("sink unavailable")
}

func TestMultiHandler_DispatchesByLevel(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	debug := NewConsoleHandler(&debugBuf, "debug", "text")
	warn := NewConsoleHandler(&warnBuf, "warn", "text")
	log := slog.New(NewMultiHandler(debug, warn))

	log.Info("workout added", "workout.id", 3)
	assert.Contains(t, debugBuf.String(), "workout added")
	assert.Empty(t, warnBuf.String())

	log.Warn("routine missing")
	assert.Contains(t, warnBuf.String(), "routine missing")
}

func TestMultiHandler_EnabledIfAnyEnabled(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(NewConsoleHandler(&buf, "error", "text"), NewConsoleHandler(&buf, "info", "text"))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestMultiHandler_KeepsGoingAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(failingHandler{}, NewConsoleHandler(&buf, "info", "text"))

	err := h.Handle(context.Background(), slog.NewRecord(timeZero, slog.LevelInfo, "login", 0))
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "login")
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewMultiHandler(NewConsoleHandler(&buf, "info", "json")))

	log.With("request_id", "abc").WithGroup("http").Info("request", "status", 302)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "abc", line["request_id"])
	assert.Equal(t, map[string]any{"status": float64(302)}, line["http"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
