package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

type ctxKey struct{}

// Logger writes JSON records tagged with the service and host name.
type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

// New creates a logger writing to stdout. debug lowers the level to Debug.
func New(service string, debug bool) *Logger {
	return NewWithWriter(service, os.Stdout, debug)
}

func NewWithWriter(service string, w io.Writer, debug bool) *Logger {
	hostname, _ := os.Hostname()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	return NewWithWriter("test", io.Discard, false)
}

// GenerateRequestID returns a fresh request id
func GenerateRequestID() string {
	return uuid.NewString()
}

// WithRequestID stores the request id in ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestID extracts the request id stored by WithRequestID
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (l *Logger) Debug(ctx context.Context, action, message string, attrs ...any) {
	l.log(ctx, slog.LevelDebug, action, message, attrs)
}

func (l *Logger) Info(ctx context.Context, action, message string, attrs ...any) {
	l.log(ctx, slog.LevelInfo, action, message, attrs)
}

func (l *Logger) Warn(ctx context.Context, action, message string, attrs ...any) {
	l.log(ctx, slog.LevelWarn, action, message, attrs)
}

func (l *Logger) Error(ctx context.Context, action, message string, err error, attrs ...any) {
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.log(ctx, slog.LevelError, action, message, attrs)
}

func (l *Logger) log(ctx context.Context, level slog.Level, action, message string, attrs []any) {
	if ctx == nil {
		ctx = context.Background()
	}
	base := []any{
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
	}
	if id := RequestID(ctx); id != "" {
		base = append(base, slog.String("request_id", id))
	}
	l.handler.Log(ctx, level, message, append(base, attrs...)...)
}
