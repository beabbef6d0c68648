package logtrace

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type traceKey struct{}

// WithTraceID returns a context carrying a trace id. An id already present in
// ctx is kept so nested calls (authorize inside a resource call) share it.
func WithTraceID(ctx context.Context) (context.Context, string) {
	if id := TraceIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return context.WithValue(ctx, traceKey{}, id.String()), id.String()
}

// TraceIDFromContext extracts the trace id from the context.
// Returns an empty string if the context is nil or carries no id.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, ok := ctx.Value(traceKey{}).(string)
	if !ok {
		return ""
	}
	return id
}

// Logger returns l annotated with the trace id of ctx, if any.
func Logger(ctx context.Context, l zerolog.Logger) zerolog.Logger {
	if id := TraceIDFromContext(ctx); id != "" {
		return l.With().Str("trace_id", id).Logger()
	}
	return l
}
