package services

import "context"

type contextKey string

const (
	sideKey      contextKey = "side"
	trackKey     contextKey = "track"
	stageKey     contextKey = "stage"
	requestIDKey contextKey = "request_id"
)

// WithSide annotates context with the 1-based side index being processed.
func WithSide(ctx context.Context, index int) context.Context {
	if index <= 0 {
		return ctx
	}
	return context.WithValue(ctx, sideKey, index)
}

// SideFromContext extracts the side index if present.
func SideFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(sideKey).(int)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// WithTrack annotates context with the global track number being processed.
func WithTrack(ctx context.Context, number int) context.Context {
	if number <= 0 {
		return ctx
	}
	return context.WithValue(ctx, trackKey, number)
}

// TrackFromContext extracts the global track number if present.
func TrackFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(trackKey).(int)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

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
