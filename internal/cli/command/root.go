// Package command provides CLI command definitions for credmesh-cli.
//
// It uses urfave/cli/v2 for command parsing.
package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/credmesh-go/internal/cli/config"
	"github.com/yndnr/credmesh-go/internal/infra/buildinfo"
	"github.com/yndnr/credmesh-go/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	info := buildinfo.Get()

	app := &cli.App{
		Name:    "credmesh-cli",
		Usage:   "CredMesh credential and trust-anchor management tool",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			FingerprintCommand(),
			RootsCommand(),
			VersionCommand(),
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			c.App.Metadata["config"] = cfg

			if c.Bool("verbose") {
				logger.SetLevel("debug")
			} else if cfg.Log.Level != "" {
				logger.SetLevel(cfg.Log.Level)
			}
			return nil
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path (default: ~/.credmesh/cli.yaml)",
			EnvVars: []string{"CREDMESH_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Config  string
	Output  string // table, json, yaml
	Verbose bool
}

// ParseGlobalFlags extracts global flags from context. The output
// format falls back to the config file's default_output when the flag
// is not set explicitly.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	out := c.String("output")
	if !c.IsSet("output") {
		if cfgOut := GetConfig(c).DefaultOutput; cfgOut != "" {
			out = cfgOut
		}
	}
	return &GlobalFlags{
		Config:  c.String("config"),
		Output:  out,
		Verbose: c.Bool("verbose"),
	}
}

// GetConfig retrieves the loaded CLI configuration from context.
func GetConfig(c *cli.Context) *config.CLIConfig {
	if cfg, ok := c.App.Metadata["config"].(*config.CLIConfig); ok {
		return cfg
	}
	return config.Default()
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
