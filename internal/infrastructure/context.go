package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// EnsureTraceID returns a context carrying a trace ID, generating one
// when the context has none. The second return is the effective ID.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if id := GetTraceID(ctx); id != "" {
		return ctx, id
	}
	id := uuid.New().String()
	return WithTraceID(ctx, id), id
}

// WithComponent returns a logger scoped to a named component.
func WithComponent(component string) *slog.Logger {
	return GetLogger().With(slog.String("component", component))
}
