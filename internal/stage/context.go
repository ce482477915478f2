package stage

import "context"

type contextKey string

const (
	runIDKey   contextKey = "run_id"
	stageKey   contextKey = "stage"
	networkKey contextKey = "network"
)

// WithRunID annotates context with the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline step name.
func WithStage(ctx context.Context, name Name) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, name)
}

// StageFromContext returns the step name if present.
func StageFromContext(ctx context.Context) (Name, bool) {
	if v, ok := ctx.Value(stageKey).(Name); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithNetwork annotates context with a 1-based network number.
func WithNetwork(ctx context.Context, number int) context.Context {
	if number <= 0 {
		return ctx
	}
	return context.WithValue(ctx, networkKey, number)
}

// NetworkFromContext extracts the network number if present.
func NetworkFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(networkKey).(int)
	return v, ok
}
