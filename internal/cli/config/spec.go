// Package config defines the CLI configuration structure.
package config

import "time"

// CLIConfig is the configuration for credmesh-cli.
type CLIConfig struct {
	Roots   RootsSection   `koanf:"roots"`
	Log     LogSection     `koanf:"log"`
	Metrics MetricsSection `koanf:"metrics"`

	// DefaultOutput selects the output format: table, json, yaml.
	DefaultOutput string `koanf:"default_output"`
}

// RootsSection configures the default root certificate bundle.
type RootsSection struct {
	// File is the PEM bundle path used by roots commands.
	File string `koanf:"file"`

	// Debounce is the minimum interval between reloads.
	Debounce time.Duration `koanf:"debounce"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MetricsSection configures the Prometheus endpoint exposed by
// long-running commands.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Roots: RootsSection{
			Debounce: 500 * time.Millisecond,
		},
		Log: LogSection{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsSection{
			Addr: "localhost:9464",
		},
		DefaultOutput: "table",
	}
}
