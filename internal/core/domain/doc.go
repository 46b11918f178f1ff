// Package domain defines the core domain models for CredMesh.
//
// Domain models are pure value objects without any IO dependencies or
// framework coupling. This package contains:
//
//   - AuthContext: the per-call context handed to plugin callbacks
//   - MetadataEntry: validated, reference-counted metadata items
//   - StatusCode: the synchronous plugin protocol status values
//   - Errors: domain-specific error definitions
//
// Callback result validation (ParseCallbackResult) lives here so the
// bridge and the native adapter share one definition of wire legality.
package domain
