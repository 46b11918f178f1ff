// Package native adapts CredMesh credentials onto the gRPC credentials
// plumbing.
//
// This package is the boundary the core services treat as opaque:
//
//   - handle.go: refcounted lifetime for credential resources
//   - callcreds.go: per-RPC credentials backed by the metadata bridge
//   - channelcreds.go: TLS transport credentials and composite bundles
//
// The core never touches grpc types directly; it holds handles and lets
// this package translate protocol status into grpc status errors.
package native
