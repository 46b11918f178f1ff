// Package command provides CLI command definitions for CredMesh.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command and global flags
//   - fingerprint.go: Identity fingerprint computation
//   - roots.go: Root bundle inspection and watching
//   - version.go: Build information
//
// Commands follow a consistent pattern of parsing flags, calling the
// appropriate service, and formatting output.
package command
