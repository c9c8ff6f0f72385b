package http

import (
	"net/url"
	"strings"

	apierrors "upscdash/internal/errors"
	"upscdash/pkg/contracts/domain"
)

// Range query parameters, each given as "lo,hi".
var rangeParams = []string{"written", "interview", "year", "rank"}

// parseConstraintsQuery builds a partial constraint set from query
// parameters. categories may repeat or hold a comma separated list; a
// present but empty categories parameter selects nothing.
func parseConstraintsQuery(q url.Values) (domain.ConstraintsRequest, error) {
	var req domain.ConstraintsRequest

	if values, ok := q["categories"]; ok {
		req.Categories = []string{}
		for _, v := range values {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					req.Categories = append(req.Categories, part)
				}
			}
		}
	}

	for _, name := range rangeParams {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		rng, err := parseRange(raw)
		if err != nil {
			return req, apierrors.ErrValidation(name, err.Error())
		}
		switch name {
		case "written":
			req.Written = rng
		case "interview":
			req.Interview = rng
		case "year":
			req.Year = rng
		case "rank":
			req.Rank = rng
		}
	}

	return req, nil
}

func parseRange(raw string) (*domain.Range, error) {
	r, err := domain.ParseRange(raw)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
