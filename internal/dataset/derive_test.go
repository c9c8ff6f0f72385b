package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivedColumns(t *testing.T) {
	tests := []struct {
		name     string
		derive   func(float64) int
		fraction float64
		want     int
	}{
		{"written 0.8", DeriveWritten, 0.8, 1400},
		{"written rounds down below half", DeriveWritten, 0.58, 1015},
		{"written full marks", DeriveWritten, 1, WrittenScale},
		{"interview truncates", DeriveInterview, 0.5, 137},
		{"interview 0.6", DeriveInterview, 0.6, 165},
		{"interview zero", DeriveInterview, 0, 0},
		{"total half rounds to even upward", DeriveTotal, 0.78, 1580},
		{"total half rounds to even downward", DeriveTotal, 0.5, 1012},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.derive(tt.fraction))
			// deterministic
			assert.Equal(t, tt.derive(tt.fraction), tt.derive(tt.fraction))
		})
	}
}
