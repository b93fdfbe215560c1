// Package ctxlog carries a slog.Logger through context.Context.
//
// Both helpers speak a JSON protocol on stdout and stderr, so the default
// logger discards everything; New only writes when verbose output is requested.
package ctxlog

import (
	"context"
	"io"
	"log/slog"
)

type key struct{}

var loggerKey = key{}

// New returns a debug-level text logger writing to w when verbose is set,
// and a discarding logger otherwise.
func New(verbose bool, w io.Writer) *slog.Logger {
	if !verbose || w == nil {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from ctx, falling back to a discarding logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return slog.New(slog.DiscardHandler)
}
