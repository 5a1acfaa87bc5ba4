package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"budgetron/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_ProductionDefaultsToJSON(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Environment = "production"
	cfg.Logging.Level = "info"

	var buf bytes.Buffer
	l := newWithWriter(cfg, &buf)
	Component(l, "reports").Info("report generated", "rows", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "report generated", entry["msg"])
	assert.Equal(t, "reports", entry["component"])
	assert.Equal(t, "production", entry["env"])
	assert.EqualValues(t, 3, entry["rows"])
}

func TestNew_TextFormatRespectsLevel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Environment = "development"
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	l := newWithWriter(cfg, &buf)
	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestNew_TraceIDFromContext(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Environment = "production"

	var buf bytes.Buffer
	l := newWithWriter(cfg, &buf)
	ctx := WithTraceID(context.Background(), "trace-123")

	l.InfoContext(ctx, "first")
	l.InfoContext(ctx, "second", "trace_id", "explicit")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "trace-123", first["trace_id"])
	assert.Equal(t, "explicit", second["trace_id"])
	assert.Empty(t, TraceID(context.Background()))
}
