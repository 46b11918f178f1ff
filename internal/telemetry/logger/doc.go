// Package logger provides structured logging for CredMesh.
//
// This package wraps log/slog for structured logging:
//
//   - logger.go: logger configuration and initialization
//   - context.go: context-aware logging with credential IDs
//   - redact.go: sensitive data redaction
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering
//   - Automatic masking of key material and bearer values
//   - Context propagation for per-credential correlation
package logger
