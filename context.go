package goSession

import "context"

type requestIDContextKey struct{}

// WithRequestID attaches a correlation ID to ctx. Gateways forward it to the
// backend (the HTTP gateway sends it as X-Request-ID) and audit events carry it.
func WithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

// RequestIDFromContext returns the correlation ID attached by [WithRequestID].
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
