// Package observability carries structured log attributes on a context so
// every record logged with that context is stamped with them.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/blockref/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	SessionID string
	Operation string
	Document  string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithSessionID adds a session ID to the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	lc := extractLogContext(ctx)
	lc.SessionID = id
	return context.WithValue(ctx, logContextKey, lc)
}

// WithOperation adds an operation name (copy, paste) to the context.
func WithOperation(ctx context.Context, op string) context.Context {
	lc := extractLogContext(ctx)
	lc.Operation = op
	return context.WithValue(ctx, logContextKey, lc)
}

// WithDocument adds a document ID to the context.
func WithDocument(ctx context.Context, doc string) context.Context {
	lc := extractLogContext(ctx)
	lc.Document = doc
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if ctx == nil {
		return LogContext{}
	}
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.SessionID != "" {
		attrs = append(attrs, logfields.SessionID(lc.SessionID))
	}
	if lc.Operation != "" {
		attrs = append(attrs, slog.String("operation", lc.Operation))
	}
	if lc.Document != "" {
		attrs = append(attrs, logfields.Document(lc.Document))
	}
	return attrs
}

// Handler decorates another slog.Handler with the attributes carried by the
// record's context.
type Handler struct {
	next slog.Handler
}

// NewHandler wraps next.
func NewHandler(next slog.Handler) *Handler {
	return &Handler{next: next}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := getLogAttrs(ctx); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.next.Handle(ctx, r)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{next: h.next.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{next: h.next.WithGroup(name)}
}
