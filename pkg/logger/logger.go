// Package logger is the shopfloor slog setup. Records are JSON and carry the
// service identity, the active trace, the chi request id and any attributes
// bound to the context with WithContext (operator_id, state_id).
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/shopfloor/pkg/config"
)

// Logger is what services depend on. Prefer the Context methods inside
// request and message handling.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	DebugContext(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
	// ToSlog exposes the underlying logger for libraries that take *slog.Logger.
	ToSlog() *slog.Logger
}

// New writes to stdout at cfg.LogLevel.
func New(cfg *config.Config) Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg *config.Config) Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)})
	var base []slog.Attr
	if cfg.ServiceName != "" {
		base = append(base, slog.String("service", cfg.ServiceName))
	}
	if cfg.ServiceVersion != "" {
		base = append(base, slog.String("version", cfg.ServiceVersion))
	}
	if cfg.Environment != "" {
		base = append(base, slog.String("env", cfg.Environment))
	}
	return &slogLogger{Logger: slog.New(&contextHandler{Handler: h.WithAttrs(base)})}
}

type slogLogger struct {
	*slog.Logger
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{Logger: l.Logger.With(args...)}
}

func (l *slogLogger) ToSlog() *slog.Logger {
	return l.Logger
}

type ctxAttrsKey struct{}

// WithContext returns a copy of ctx whose log records also carry args.
// Later calls append to, and may shadow, earlier ones.
func WithContext(ctx context.Context, args ...any) context.Context {
	rec := slog.Record{}
	rec.Add(args...)
	attrs := append([]slog.Attr(nil), contextAttrs(ctx)...)
	rec.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	return context.WithValue(ctx, ctxAttrsKey{}, attrs)
}

func contextAttrs(ctx context.Context) []slog.Attr {
	attrs, _ := ctx.Value(ctxAttrsKey{}).([]slog.Attr)
	return attrs
}

// contextHandler adds the trace, request id and bound attributes of the
// record's context.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	if id := middleware.GetReqID(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	r.AddAttrs(contextAttrs(ctx)...)
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{h.Handler.WithGroup(name)}
}

// ParseLevel maps LOG_LEVEL to a slog level; unknown values mean info.
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
