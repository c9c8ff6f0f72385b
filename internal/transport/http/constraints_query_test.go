package http

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "upscdash/internal/errors"
	"upscdash/pkg/contracts/domain"
)

func TestParseConstraintsQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.ConstraintsRequest
	}{
		{
			name:  "no parameters",
			query: "",
			want:  domain.ConstraintsRequest{},
		},
		{
			name:  "comma separated categories",
			query: "categories=GEN,%20OBC",
			want:  domain.ConstraintsRequest{Categories: []string{"GEN", "OBC"}},
		},
		{
			name:  "repeated categories",
			query: "categories=GEN&categories=SC",
			want:  domain.ConstraintsRequest{Categories: []string{"GEN", "SC"}},
		},
		{
			name:  "empty categories selects nothing",
			query: "categories=",
			want:  domain.ConstraintsRequest{Categories: []string{}},
		},
		{
			name:  "ranges",
			query: "written=900,1200&interview=100,%20200&year=2010,2015&rank=1,500",
			want: domain.ConstraintsRequest{
				Written:   &domain.Range{Lo: 900, Hi: 1200},
				Interview: &domain.Range{Lo: 100, Hi: 200},
				Year:      &domain.Range{Lo: 2010, Hi: 2015},
				Rank:      &domain.Range{Lo: 1, Hi: 500},
			},
		},
		{
			name:  "inverted range is kept",
			query: "written=1300,900",
			want:  domain.ConstraintsRequest{Written: &domain.Range{Lo: 1300, Hi: 900}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := parseConstraintsQuery(q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseConstraintsQueryErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		field string
	}{
		{"missing separator", "written=900", "written"},
		{"non numeric lower bound", "year=abc,2015", "year"},
		{"non numeric upper bound", "rank=1,top", "rank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			_, err = parseConstraintsQuery(q)
			require.Error(t, err)

			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)
			details, ok := apiErr.Details.(apierrors.ValidationError)
			require.True(t, ok)
			assert.Equal(t, tt.field, details.Field)
		})
	}
}
