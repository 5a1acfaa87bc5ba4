package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"budgetron/internal/config"
)

// New builds the process logger. Production defaults to JSON output, other
// environments to text unless LOG_FORMAT says otherwise.
func New(cfg *config.Config) *slog.Logger {
	return newWithWriter(cfg, os.Stdout)
}

func newWithWriter(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Logging.Level)}

	format := strings.ToLower(cfg.Logging.Format)
	if format == "" && cfg.IsProduction() {
		format = "json"
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(traceHandler{handler}).With("service", "budgetron", "env", cfg.Server.Environment)
}

// Setup builds the logger and installs it as the slog default.
func Setup(cfg *config.Config) *slog.Logger {
	l := New(cfg)
	slog.SetDefault(l)
	return l
}

// Component returns a child logger tagged with the component name.
func Component(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With("component", name)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type traceIDKey struct{}

// WithTraceID stores the request trace ID so context-aware log calls
// (InfoContext, ErrorContext, ...) carry it without passing it explicitly.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceID returns the trace ID stored by WithTraceID.
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

type traceHandler struct {
	slog.Handler
}

func (h traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := TraceID(ctx); id != "" && !hasAttr(r, "trace_id") {
		r.AddAttrs(slog.String("trace_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceHandler{h.Handler.WithAttrs(attrs)}
}

func (h traceHandler) WithGroup(name string) slog.Handler {
	return traceHandler{h.Handler.WithGroup(name)}
}

func hasAttr(r slog.Record, key string) bool {
	found := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			found = true
			return false
		}
		return true
	})
	return found
}
