// Package command provides CLI command definitions for credmesh-cli.
package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/credmesh-go/internal/cli/output"
	"github.com/yndnr/credmesh-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show build information",
		Action: versionAction,
	}
}

func versionAction(c *cli.Context) error {
	info := buildinfo.Get()

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output))
		return formatter.Format(c.App.Writer, info)
	default:
		fmt.Fprintf(c.App.Writer, "credmesh-cli %s\n", info.Version)
		fmt.Fprintf(c.App.Writer, "  commit:     %s\n", info.Commit)
		fmt.Fprintf(c.App.Writer, "  built:      %s\n", info.BuildTime)
		fmt.Fprintf(c.App.Writer, "  go version: %s\n", info.GoVersion)
		return nil
	}
}
