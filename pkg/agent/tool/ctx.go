package tool

import (
	"context"

	"github.com/haus-labs/haus-agent/pkg/domain/model"
)

// UpdateFunc is a function that posts a progress message during tool execution.
// The text driver prints these while a tool is running.
type UpdateFunc func(ctx context.Context, message string)

type updateKey struct{}

type workingContextKey struct{}

// WithUpdate returns a new context that carries the given UpdateFunc.
func WithUpdate(ctx context.Context, fn UpdateFunc) context.Context {
	return context.WithValue(ctx, updateKey{}, fn)
}

// Update calls the UpdateFunc stored in ctx with the given message.
// If no UpdateFunc is present in ctx, the call is a no-op.
func Update(ctx context.Context, message string) {
	if fn, ok := ctx.Value(updateKey{}).(UpdateFunc); ok {
		fn(ctx, message)
	}
}

// WithWorkingContext attaches the call's working context so tools can read
// the conversation that led to their invocation.
func WithWorkingContext(ctx context.Context, wc *model.WorkingContext) context.Context {
	return context.WithValue(ctx, workingContextKey{}, wc)
}

// WorkingContextFrom returns the working context attached to ctx, or nil.
func WorkingContextFrom(ctx context.Context) *model.WorkingContext {
	wc, _ := ctx.Value(workingContextKey{}).(*model.WorkingContext)
	return wc
}
