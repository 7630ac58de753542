package services

import "context"

type contextKey string

const (
	stageKey     contextKey = "stage"
	locatorKey   contextKey = "locator"
	requestIDKey contextKey = "request_id"
)

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithLocator annotates context with the video locator being processed.
func WithLocator(ctx context.Context, locator string) context.Context {
	if locator == "" {
		return ctx
	}
	return context.WithValue(ctx, locatorKey, locator)
}

// LocatorFromContext returns the video locator if present.
func LocatorFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(locatorKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
