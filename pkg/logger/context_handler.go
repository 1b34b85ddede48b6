package logger

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/pharmakit/pkg/rbac"
	"github.com/dmitrymomot/pharmakit/pkg/requestid"
)

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// RequestIDExtractor adds the request id stored by requestid.WithContext.
func RequestIDExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := requestid.FromContext(ctx); id != "" {
			return RequestID(id), true
		}
		return slog.Attr{}, false
	}
}

// RoleExtractor adds the role stored by rbac.SetRoleToContext.
func RoleExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if role, ok := rbac.GetRoleFromContext(ctx); ok {
			return Role(role), true
		}
		return slog.Attr{}, false
	}
}

// contextHandler runs the extractors on every record before delegating.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

func newContextHandler(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	if len(extractors) == 0 {
		return next
	}
	return &contextHandler{next: next, extractors: extractors}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if ctx != nil {
		for _, ex := range h.extractors {
			if attr, ok := ex(ctx); ok {
				rec.AddAttrs(attr)
			}
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
