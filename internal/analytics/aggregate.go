package analytics

import (
	"sort"

	"upscdash/pkg/contracts/domain"
)

// CategoryStats computes mean and median of written and interview for every
// category present in rows, ordered by label. Absent categories produce no row.
func CategoryStats(rows []domain.Record) []domain.CategoryStat {
	groups, labels := GroupByCategory(rows)
	sort.Strings(labels)

	stats := make([]domain.CategoryStat, 0, len(labels))
	for _, label := range labels {
		group := groups[label]
		written := Values(group, domain.ColumnWritten)
		interview := Values(group, domain.ColumnInterview)

		// groups never hold empty slices, so ok is always true here
		meanW, _ := Mean(written)
		medW, _ := Median(written)
		meanI, _ := Mean(interview)
		medI, _ := Median(interview)

		stats = append(stats, domain.CategoryStat{
			Category:        label,
			Count:           len(group),
			MeanInterview:   meanI,
			MedianInterview: medI,
			MeanWritten:     meanW,
			MedianWritten:   medW,
		})
	}
	return stats
}

// CategoryCounts returns the number of rows per category, largest first with
// ties broken by label.
func CategoryCounts(rows []domain.Record) []domain.CategoryCount {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.Category]++
	}

	out := make([]domain.CategoryCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, domain.CategoryCount{Category: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// CountMap is CategoryCounts as a label to count map.
func CountMap(rows []domain.Record) map[string]int {
	out := make(map[string]int)
	for _, r := range rows {
		out[r.Category]++
	}
	return out
}
