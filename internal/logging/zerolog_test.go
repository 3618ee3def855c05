package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, level string) (*ZerologLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return New(Options{Level: level, Output: &buf}), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t, "debug")
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 4)

	tests := []struct {
		level string
		msg   string
		key   string
		val   float64
	}{
		{"debug", "dbg", "a", 1},
		{"info", "inf", "b", 2},
		{"warn", "wrn", "c", 3},
		{"error", "err", "d", 4},
	}

	for i, tc := range tests {
		assert.Equal(t, tc.level, lines[i]["level"])
		assert.Equal(t, tc.msg, lines[i]["message"])
		assert.Equal(t, tc.val, lines[i][tc.key])
	}
}

func TestZerologLogger_LevelFiltersLowerEvents(t *testing.T) {
	log, buf := newTestLogger(t, "warn")
	ctx := context.Background()

	log.Debug(ctx, "hidden")
	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
}

func TestZerologLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t, "info")

	child := log.With("component", "session", "store", "default")
	child.Info(context.Background(), "hello", "k", "v")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "session", lines[0]["component"])
	assert.Equal(t, "default", lines[0]["store"])
	assert.Equal(t, "v", lines[0]["k"])
}

func TestZerologLogger_DanglingKeyIsKept(t *testing.T) {
	log, buf := newTestLogger(t, "info")

	log.Info(context.Background(), "odd", "lonely")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "lonely", lines[0]["!BADKEY"])
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	ctx := context.TODO()
	l.Debug(ctx, "x")
	l.Info(ctx, "x")
	l.Warn(ctx, "x")
	l.Error(ctx, "x")
	l.With("a", 1).Info(ctx, "y")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" info ":  zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"loud":    zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
