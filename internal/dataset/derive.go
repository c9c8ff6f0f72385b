package dataset

import "math"

// Maximum marks of each score column.
const (
	InterviewScale = 275
	WrittenScale   = 1750
	TotalScale     = 2025
)

// DeriveInterview truncates fraction*275 toward zero.
func DeriveInterview(fraction float64) int {
	return int(math.Trunc(fraction * InterviewScale))
}

// DeriveWritten rounds fraction*1750 half to even.
func DeriveWritten(fraction float64) int {
	return int(math.RoundToEven(fraction * WrittenScale))
}

// DeriveTotal rounds fraction*2025 half to even.
func DeriveTotal(fraction float64) int {
	return int(math.RoundToEven(fraction * TotalScale))
}
