package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"upscdash/pkg/contracts/domain"
)

// constraintFlags holds the filter flags shared by summary and export.
// Flags left unset fall back to the dashboard defaults.
type constraintFlags struct {
	categories string
	written    string
	interview  string
	year       string
	rank       string
}

func (f *constraintFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.categories, "categories", "", `Comma separated categories; "" selects none`)
	fs.StringVar(&f.written, "written", "", "Written marks range as lo,hi")
	fs.StringVar(&f.interview, "interview", "", "Interview marks range as lo,hi")
	fs.StringVar(&f.year, "year", "", "Year range as lo,hi")
	fs.StringVar(&f.rank, "rank", "", "Rank range as lo,hi")
}

// request converts the flags that were set on cmd into a constraint request.
func (f *constraintFlags) request(cmd *cobra.Command) (domain.ConstraintsRequest, error) {
	var req domain.ConstraintsRequest

	if cmd.Flags().Changed("categories") {
		req.Categories = []string{}
		for _, part := range strings.Split(f.categories, ",") {
			if part = strings.TrimSpace(part); part != "" {
				req.Categories = append(req.Categories, part)
			}
		}
	}

	ranges := []struct {
		name  string
		value string
		dst   **domain.Range
	}{
		{"written", f.written, &req.Written},
		{"interview", f.interview, &req.Interview},
		{"year", f.year, &req.Year},
		{"rank", f.rank, &req.Rank},
	}
	for _, r := range ranges {
		if !cmd.Flags().Changed(r.name) {
			continue
		}
		rng, err := domain.ParseRange(r.value)
		if err != nil {
			return req, fmt.Errorf("--%s: %w", r.name, err)
		}
		*r.dst = &rng
	}

	return req, nil
}
