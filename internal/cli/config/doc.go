// Package config provides CLI configuration for CredMesh.
//
// This package defines CLI-specific configuration:
//
//   - spec.go: CLIConfig struct (~/.credmesh/cli.yaml)
//   - loader.go: Configuration loading and merging
//
// Configuration includes:
//
//   - Default root bundle location and watch behavior
//   - Output format preferences
//   - Logging level and format
package config
