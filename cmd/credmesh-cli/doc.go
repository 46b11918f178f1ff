// Package main provides the entry point for credmesh-cli.
//
// The CLI tool provides command-line access to CredMesh for:
//
//   - Identity fingerprint computation
//   - Root bundle validation and hot-reload watching
//   - Build information
//
// Usage:
//
//	credmesh-cli [command] [flags]
//	credmesh-cli fingerprint --key client.key --chain client.pem
//	credmesh-cli roots check --file /etc/credmesh/roots.pem
//	credmesh-cli roots watch --file /etc/credmesh/roots.pem --metrics
package main
