// Package snsctx carries per-call flags for bus adapters through a context.
package snsctx

import "context"

type ctxKey int

const verboseKey ctxKey = iota

// WithVerbose makes adapters dump raw bus traffic at debug level.
func WithVerbose(parent context.Context, value bool) context.Context {
	return context.WithValue(parent, verboseKey, value)
}

func IsVerbose(ctx context.Context) bool {
	verbose, _ := ctx.Value(verboseKey).(bool)
	return verbose
}
