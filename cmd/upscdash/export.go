package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"upscdash/internal/exporter"
	"upscdash/internal/infrastructure"
)

func exportCmd(opts *globalOptions) *cobra.Command {
	var (
		flags  constraintFlags
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered rows and their aggregates to a file",
		Long: `Export writes the rows matching the constraint set, together with
per-category statistics and counts, as CSV or XLSX. Relative output paths
are placed in the exports directory.`,
		Example: `  upscdash export --format xlsx --categories SC,ST
  upscdash export --rank 1,100 --out top100.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exporter.ParseFormat(format)
			if err != nil {
				return err
			}
			req, err := flags.request(cmd)
			if err != nil {
				return err
			}

			ctx := infrastructure.EnsureTraceID(cmd.Context())
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := a.Dashboard.ExportData(ctx, req)
			if err != nil {
				return err
			}
			path, err := a.Exporter.Save(out, f, data)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(data.Rows), path)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", string(exporter.FormatCSV), "Export format (csv, xlsx)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, defaults to a timestamped name")

	return cmd
}
