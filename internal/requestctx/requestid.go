package requestctx

import (
	"context"
)

type ctxKeyRequestID struct{}

var requestIDKey = ctxKeyRequestID{}

// WithRequestID сохраняет request_id в контексте (используется HTTP middleware)
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext возвращает request_id из контекста, если он был установлен
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}
