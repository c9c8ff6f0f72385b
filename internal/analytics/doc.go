// Package analytics implements the pure filter and aggregate core of the
// dashboard.
//
// Every function here is deterministic and free of I/O: it reads the rows it
// is given and returns new values without mutating its inputs. Callers own
// the dataset lifecycle; this package never sees files, clocks or loggers.
//
// # Operations
//
//   - Filter: conjunctive category/range predicate, inclusive bounds.
//   - CategoryStats: mean and median of written and interview per category.
//   - CategoryCounts: rows per category, largest first.
//   - Thresholds and Extremes: joint top/bottom decile subsets.
//   - Box and Histogram: distribution summaries used by the chart builders.
//
// Quantiles use linear interpolation between closest ranks, so the median of
// an even-sized sample is the mean of its two middle values.
package analytics
