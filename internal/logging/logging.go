// Package logging builds the process logger and carries request-scoped
// loggers through context.Context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type contextKey struct{}

// New returns a JSON logger for production-like environments and a text
// logger for dev. Debug level is enabled outside prod.
func New(env string) *slog.Logger {
	return newLogger(os.Stdout, env)
}

func newLogger(w io.Writer, env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	if env == "prod" || env == "production" {
		opts.Level = slog.LevelInfo
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	if env == "dev" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// WithLogger returns a derived context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOr(ctx, nil)
}

// FromContextOr returns the logger stored in ctx, else fallback, else
// slog.Default.
func FromContextOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
