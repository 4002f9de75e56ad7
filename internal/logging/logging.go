package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog default. Format is "text" or "json";
// a nil writer means os.Stderr.
func Init(level, format string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// New returns a logger with a "component" attribute.
func New(component string) *slog.Logger {
	return slog.Default().With(slog.String("component", component))
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger tags every line with a request id and an operation name.
type Logger struct {
	base      *slog.Logger
	requestID string
}

// FromContext builds a Logger for component using the request id stored in ctx.
func FromContext(ctx context.Context, component string) *Logger {
	rid := RequestID(ctx)
	if rid == "" {
		rid = "unknown"
	}
	return &Logger{base: New(component), requestID: rid}
}

func (l *Logger) attrs(operation string) []any {
	return []any{"request_id", l.requestID, "operation", operation}
}

func (l *Logger) Info(operation, message string) {
	l.base.Info(message, l.attrs(operation)...)
}

func (l *Logger) Infof(operation, format string, args ...any) {
	l.base.Info(fmt.Sprintf(format, args...), l.attrs(operation)...)
}

func (l *Logger) Warn(operation, message string) {
	l.base.Warn(message, l.attrs(operation)...)
}

func (l *Logger) Warnf(operation, format string, args ...any) {
	l.base.Warn(fmt.Sprintf(format, args...), l.attrs(operation)...)
}

func (l *Logger) Error(operation string, err error) {
	l.base.Error("operation failed", append(l.attrs(operation), "error", err)...)
}

func (l *Logger) Errorf(operation, format string, args ...any) {
	l.base.Error(fmt.Sprintf(format, args...), l.attrs(operation)...)
}
