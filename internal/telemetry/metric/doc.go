// Package metric provides Prometheus metrics for CredMesh.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus collectors and HTTP handler
//   - nop.go: discard implementation for hosts without Prometheus
//
// Metrics include:
//
//   - Credential construction counters by kind
//   - Plugin bridge call counters by protocol status
//   - Root certificate store read/write counters
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
