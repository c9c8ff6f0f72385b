package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"upscdash/internal/infrastructure"
	"upscdash/internal/report"
	"upscdash/internal/services"
)

func summaryCmd(opts *globalOptions) *cobra.Command {
	var (
		flags    constraintFlags
		extremes int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-category statistics for a constraint set",
		Example: `  upscdash summary --categories GEN,OBC --year 2010,2015
  upscdash summary --written 900,1200 --extremes 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			view, err := a.Dashboard.View(ctx, services.SourceCLI, req)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}

			p := report.NewPrinter(cmd.OutOrStdout())
			p.PrintView(view)
			if extremes > 0 {
				e, err := a.Dashboard.Extremes(ctx)
				if err != nil {
					return err
				}
				p.PrintExtremes(e, extremes)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&extremes, "extremes", 0, "Also list up to N top and bottom decile rows")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full view model as JSON")

	return cmd
}
