// Package command provides CLI command definitions for credmesh-cli.
package command

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/credmesh-go/internal/cli/output"
	"github.com/yndnr/credmesh-go/internal/infra/shutdown"
	"github.com/yndnr/credmesh-go/internal/infra/tlsroots"
	"github.com/yndnr/credmesh-go/internal/telemetry/logger"
	"github.com/yndnr/credmesh-go/internal/telemetry/metric"
)

// RootsCommand returns the roots subcommand group.
func RootsCommand() *cli.Command {
	return &cli.Command{
		Name:  "roots",
		Usage: "Root certificate bundle commands",
		Subcommands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Validate a PEM root bundle",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "PEM bundle path (default: from config)",
					},
				},
				Action: rootsCheck,
			},
			{
				Name:  "watch",
				Usage: "Watch a PEM root bundle and hot-reload it until signalled",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "PEM bundle path (default: from config)",
					},
					&cli.DurationFlag{
						Name:  "debounce",
						Usage: "Minimum interval between reloads",
					},
					&cli.BoolFlag{
						Name:  "metrics",
						Usage: "Expose Prometheus metrics while watching",
					},
				},
				Action: rootsWatch,
			},
		},
	}
}

type rootsCheckResult struct {
	File  string `json:"file" yaml:"file"`
	Certs int    `json:"certs" yaml:"certs"`
	Bytes int    `json:"bytes" yaml:"bytes"`
}

// rootsFile resolves the bundle path from the flag or config.
func rootsFile(c *cli.Context) (string, error) {
	if f := c.String("file"); f != "" {
		return f, nil
	}
	if f := GetConfig(c).Roots.File; f != "" {
		return f, nil
	}
	return "", fmt.Errorf("no roots file: pass --file or set roots.file in config")
}

func rootsCheck(c *cli.Context) error {
	path, err := rootsFile(c)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read roots file: %w", err)
	}

	count, err := tlsroots.CountCertsPEM(data)
	if err != nil {
		return fmt.Errorf("invalid bundle %s: %w", path, err)
	}

	result := rootsCheckResult{File: path, Certs: count, Bytes: len(data)}

	flags := ParseGlobalFlags(c)
	formatter := output.NewFormatter(output.Format(flags.Output))
	return formatter.Format(c.App.Writer, result)
}

func rootsWatch(c *cli.Context) error {
	path, err := rootsFile(c)
	if err != nil {
		return err
	}
	cfg := GetConfig(c)

	log := logger.Default()
	metrics := metric.NewNopRegistry()

	var metricsSrv *http.Server
	if c.Bool("metrics") || cfg.Metrics.Enabled {
		metrics = metric.NewRegistry(prometheus.DefaultRegisterer)
		mux := http.NewServeMux()
		mux.Handle("/metrics", metric.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server stopped", "error", err)
			}
		}()
	}

	store := tlsroots.NewStore(metrics)
	debounce := c.Duration("debounce")
	if debounce == 0 {
		debounce = cfg.Roots.Debounce
	}

	opts := []tlsroots.WatcherOption{tlsroots.WithLogger(log)}
	if debounce > 0 {
		opts = append(opts, tlsroots.WithDebounce(debounce))
	}

	w, err := tlsroots.NewWatcher(path, store, opts...)
	if err != nil {
		return fmt.Errorf("watch roots file: %w", err)
	}
	w.StartAsync()

	fmt.Fprintf(c.App.Writer, "watching %s (debounce %s), press Ctrl+C to stop\n", path, debounce)

	handler := shutdown.NewHandler(5 * time.Second)
	handler.OnShutdown(func(context.Context) error {
		w.Stop()
		return nil
	})
	if metricsSrv != nil {
		handler.OnShutdown(func(ctx context.Context) error {
			return metricsSrv.Shutdown(ctx)
		})
	}
	return handler.Wait()
}
