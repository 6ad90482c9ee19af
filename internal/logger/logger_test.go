package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/labelgap/internal/logger"
)

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

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.NewSlogLogger(buf, logger.LogLevelWarn, time.UTC)

	log.Debug("dropped")
	log.Info("dropped")
	log.Warn("kept")
	log.Error("kept too")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.Equal(t, "ERROR", lines[1]["level"])
}

func TestModuleAndFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.NewSlogLogger(buf, logger.LogLevelDebug, time.UTC).
		Module("analysis").
		Module("disparity").
		With(logger.String("group", "Female"))

	log.Info("Ranked labels",
		logger.Int("rows", 25),
		logger.Float64("max_statistic", 12.5),
		logger.Bool("truncated", true),
		logger.Error(errors.New("boom")),
		logger.Duration("elapsed", 1500*time.Millisecond))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	line := lines[0]
	assert.Equal(t, "analysis.disparity", line["module"])
	assert.Equal(t, "Female", line["group"])
	assert.InDelta(t, 25, line["rows"], 0)
	assert.InDelta(t, 12.5, line["max_statistic"], 0)
	assert.Equal(t, true, line["truncated"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "1.5s", line["elapsed"])
}

func TestWithContextAddsTraceID(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	base := logger.NewSlogLogger(buf, logger.LogLevelInfo, time.UTC)

	ctx := logger.WithTraceID(context.Background(), "run-123")
	base.WithContext(ctx).Info("with trace")
	base.WithContext(context.Background()).Info("without trace")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "run-123", lines[0]["trace_id"])
	assert.NotContains(t, lines[1], "trace_id")
	assert.Equal(t, "run-123", logger.TraceID(ctx))
}

func TestFileLogger(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "labelgap.log")
	log, err := logger.NewSlogLoggerWithFile(path, logger.LogLevelInfo, time.UTC)
	require.NoError(t, err)

	log.Module("roster").Info("Roster loaded", logger.Int("rows", 3))
	require.NoError(t, log.Flush())
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"module":"roster"`)
	assert.Contains(t, string(data), `"rows":3`)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	level, ok := logger.ParseLevel("debug")
	assert.True(t, ok)
	assert.Equal(t, logger.LogLevelDebug, level)

	_, ok = logger.ParseLevel("verbose")
	assert.False(t, ok)
}

func TestGlobalFallbackIsUsable(t *testing.T) {
	assert.NotNil(t, logger.Global())
	logger.Global().Module("test").Info("discarded")
}
