package generations

import (
	"context"

	"cameo-backend/internal/shared/server/middleware"
)

// WithRequestID attaches a request ID to the context for lifecycle logs.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return middleware.WithRequestID(ctx, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	return middleware.RequestIDFrom(ctx)
}

func backgroundWithRequestID(ctx context.Context) context.Context {
	return WithRequestID(context.Background(), requestIDFromContext(ctx))
}
