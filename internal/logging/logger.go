// Package logging defines the structured logger the server layers share.
// Every component takes the interface, derives a child with its module name,
// and logs key-value pairs; the process owns the single slog backend.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// key-value pairs:
//
//	log.Info(ctx, "starting HTTP server", "address", addr)
type Logger interface {
	// Debug logs fine-grained diagnostics, disabled in production handlers.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value
	// pairs, used to tag a component's log lines with its module name.
	With(args ...any) Logger
}
