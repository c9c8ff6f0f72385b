package analytics

import "upscdash/pkg/contracts/domain"

// Filter returns the rows matching every predicate of c, in input order.
// An empty category set or an inverted range yields an empty, non-nil slice.
func Filter(rows []domain.Record, c domain.Constraints) []domain.Record {
	out := make([]domain.Record, 0)
	if len(c.Categories) == 0 || anyInverted(c) {
		return out
	}

	selected := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		selected[cat] = struct{}{}
	}

	for _, r := range rows {
		if matches(r, c, selected) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether a single row satisfies c.
func Matches(r domain.Record, c domain.Constraints) bool {
	selected := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		selected[cat] = struct{}{}
	}
	return matches(r, c, selected)
}

func matches(r domain.Record, c domain.Constraints, selected map[string]struct{}) bool {
	if _, ok := selected[r.Category]; !ok {
		return false
	}
	return c.Written.Contains(r.Written) &&
		c.Interview.Contains(r.Interview) &&
		c.Year.Contains(r.Year) &&
		c.Rank.Contains(r.Rank)
}

func anyInverted(c domain.Constraints) bool {
	return c.Written.Inverted() || c.Interview.Inverted() ||
		c.Year.Inverted() || c.Rank.Inverted()
}

// Values extracts col from every row.
func Values(rows []domain.Record, col domain.Column) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Value(col)
	}
	return out
}

// GroupByCategory splits rows by category label, preserving input order
// inside each group. The second result lists labels in first-appearance order.
func GroupByCategory(rows []domain.Record) (map[string][]domain.Record, []string) {
	groups := make(map[string][]domain.Record)
	var order []string
	for _, r := range rows {
		if _, ok := groups[r.Category]; !ok {
			order = append(order, r.Category)
		}
		groups[r.Category] = append(groups[r.Category], r)
	}
	return groups, order
}
