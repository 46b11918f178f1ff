// Package tlsroots provides default trust-anchor management for CredMesh.
//
// This package owns the process-wide default root certificate bundle:
//
//   - roots.go: PEM parsing into x509 cert pools
//   - store.go: RW-locked cache of the default bundle with an override hook
//   - watcher.go: Bundle hot-reload via fsnotify
//
// Features:
//
//   - System certificate pool fallback
//   - Optimistic writes that skip the exclusive lock for identical bundles
//   - Caller-owned copies handed to the TLS layer
//   - Automatic bundle reload on file changes
package tlsroots
