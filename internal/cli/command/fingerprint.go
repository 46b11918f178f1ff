// Package command provides CLI command definitions for credmesh-cli.
package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/credmesh-go/internal/cli/output"
	"github.com/yndnr/credmesh-go/pkg/fingerprint"
)

// FingerprintCommand returns the fingerprint command.
func FingerprintCommand() *cli.Command {
	return &cli.Command{
		Name:  "fingerprint",
		Usage: "Compute the identity fingerprint of a key and certificate chain",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "key",
				Aliases:  []string{"k"},
				Usage:    "Private key PEM file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "chain",
				Aliases:  []string{"C"},
				Usage:    "Certificate chain PEM file",
				Required: true,
			},
		},
		Action: fingerprintAction,
	}
}

type fingerprintResult struct {
	KeyFile     string `json:"key_file" yaml:"key_file"`
	ChainFile   string `json:"chain_file" yaml:"chain_file"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

func fingerprintAction(c *cli.Context) error {
	key, err := os.ReadFile(c.String("key"))
	if err != nil {
		return fmt.Errorf("read key file: %w", err)
	}
	chain, err := os.ReadFile(c.String("chain"))
	if err != nil {
		return fmt.Errorf("read chain file: %w", err)
	}

	result := fingerprintResult{
		KeyFile:     c.String("key"),
		ChainFile:   c.String("chain"),
		Fingerprint: fingerprint.KeyPair(key, chain),
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output))
		return formatter.Format(c.App.Writer, result)
	default:
		_, err := fmt.Fprintln(c.App.Writer, result.Fingerprint)
		return err
	}
}
