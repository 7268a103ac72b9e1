package core

import "context"

type contextKey string

const ctxKeyRunID contextKey = "run_id"

// ContextWithRunID tags ctx with the identifier of a forecast run.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRunID, id)
}

// RunIDFromContext returns the run identifier stored in ctx, or "".
func RunIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRunID).(string); ok {
		return v
	}
	return ""
}
