package core

import "context"

// Context keys for load options
type contextKey string

const quietKey contextKey = "quiet"

// WithQuiet marks ctx so that catalog loads never print diagnostics, e.g.
// when stdout and stderr belong to a protocol.
func WithQuiet(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey, true)
}

// isQuiet returns whether diagnostics should be suppressed from context
func isQuiet(ctx context.Context) bool {
	val := ctx.Value(quietKey)
	if val == nil {
		return false // default: print when verbose
	}
	quiet, ok := val.(bool)
	return ok && quiet
}
