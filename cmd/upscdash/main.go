// Package main provides the upscdash binary entry point.
// upscdash serves the UPSC results dashboard API and offers command line
// summaries and exports over the same filter and aggregate pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"upscdash/internal/app"
	"upscdash/internal/config"
	"upscdash/internal/infrastructure"
	"upscdash/pkg/contracts"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	err := rootCmd().Execute()
	_ = infrastructure.CloseLogFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	configPath  string
	datasetPath string
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   config.AppBinary,
		Short: "UPSC results dashboard",
		Long: `upscdash loads a UPSC examination results file and serves an
interactive filter and aggregate dashboard over HTTP and WebSocket.

The summary and export commands run the same pipeline once from the
command line.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVarP(&opts.datasetPath, "dataset", "d", "", "Results file, overrides the configured dataset path")

	cmd.AddCommand(serveCmd(opts))
	cmd.AddCommand(summaryCmd(opts))
	cmd.AddCommand(exportCmd(opts))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", config.AppBinary, contracts.GetFullVersionString())
		},
	})

	return cmd
}

func serveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(parent context.Context, opts *globalOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := app.Bootstrap(opts.configPath, opts.overrideDataset)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}

func (o *globalOptions) overrideDataset(cfg *config.Config) {
	if o.datasetPath != "" {
		cfg.Dataset.Path = o.datasetPath
	}
}

// openApp wires the application for a one-shot command and loads the
// dataset. Logs go to the log file only so stdout carries the report, and
// tracing is off since no exporter outlives the command.
func openApp(ctx context.Context, opts *globalOptions) (*app.Application, error) {
	cfg, logger, err := app.Bootstrap(opts.configPath, func(cfg *config.Config) {
		opts.overrideDataset(cfg)
		cfg.Logging.Output = "file"
		cfg.Telemetry.TracingEnabled = false
	})
	if err != nil {
		return nil, err
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	if _, err := a.LoadDataset(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	return a, nil
}
