// Package logger provides structured logging for CredMesh.
package logger

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// loggerKey is the context key for the logger.
	loggerKey contextKey = "credmesh.logger"
	// credentialIDKey is the context key for the credential ID.
	credentialIDKey contextKey = "credmesh.credential_id"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithCredentialID adds a credential ID to the context.
func WithCredentialID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, credentialIDKey, id)
}

// CredentialIDFromContext extracts the credential ID from context.
func CredentialIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(credentialIDKey).(string); ok {
		return id
	}
	return ""
}

// L is a shorthand for FromContext that also enriches the logger with
// the credential ID from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)

	if id := CredentialIDFromContext(ctx); id != "" {
		l = l.With("credential_id", id)
	}

	return l
}
