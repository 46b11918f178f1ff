// Package service provides the credential operations for CredMesh.
//
// The service layer orchestrates the domain models over the native
// credential layer:
//
//   - plugin.go: callback state for plugin-backed credentials
//   - bridge.go: the synchronous metadata protocol
//   - credentials.go: credential construction and composition
//
// Services hold no transport state; they build handles the caller owns
// and closes.
package service
