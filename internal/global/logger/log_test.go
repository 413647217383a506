package logger

import (
	"context"
	"log/slog"
	"testing"

	"campus-activity/config"

	"github.com/stretchr/testify/assert"
)

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, getLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, getLogLevel("warn"))
	assert.Equal(t, slog.LevelError, getLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, getLogLevel(""))
}

func TestNewHandlerByMode(t *testing.T) {
	debug := &config.Config{Mode: config.ModeDebug}
	_, ok := newHandler(debug).(*slog.TextHandler)
	assert.True(t, ok)

	release := &config.Config{Mode: config.ModeRelease, Log: config.Log{FilePath: t.TempDir() + "/app.log"}}
	_, ok = newHandler(release).(*slog.JSONHandler)
	assert.True(t, ok)
}

func TestMultiHandlerFansOut(t *testing.T) {
	a := &countingHandler{}
	b := &countingHandler{level: slog.LevelError}
	l := slog.New(newMultiHandler(a, b))

	l.Info("hello")
	l.Error("boom")

	assert.Equal(t, 2, a.count)
	assert.Equal(t, 1, b.count)
}

type countingHandler struct {
	level slog.Level
	count int
}

func (h *countingHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }
func (h *countingHandler) Handle(context.Context, slog.Record) error    { h.count++; return nil }
func (h *countingHandler) WithAttrs([]slog.Attr) slog.Handler          { return h }
func (h *countingHandler) WithGroup(string) slog.Handler               { return h }
