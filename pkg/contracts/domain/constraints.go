package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is an inclusive integer interval. A range with Lo > Hi is legal and
// contains nothing.
type Range struct {
	Lo int `json:"lo"`
	Hi int `json:"hi"`
}

// Contains reports whether lo <= v <= hi.
func (r Range) Contains(v int) bool {
	return r.Lo <= v && v <= r.Hi
}

// ParseRange parses "lo,hi". Inverted ranges are accepted.
func ParseRange(s string) (Range, error) {
	lo, hi, ok := strings.Cut(s, ",")
	if !ok {
		return Range{}, fmt.Errorf("expected lo,hi but got %q", s)
	}
	l, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return Range{}, fmt.Errorf("lower bound %q is not an integer", lo)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return Range{}, fmt.Errorf("upper bound %q is not an integer", hi)
	}
	return Range{Lo: l, Hi: h}, nil
}

// String formats r as "lo,hi", the form ParseRange reads.
func (r Range) String() string {
	return strconv.Itoa(r.Lo) + "," + strconv.Itoa(r.Hi)
}

// Inverted reports whether the lower bound exceeds the upper bound.
func (r Range) Inverted() bool {
	return r.Lo > r.Hi
}

// Constraints is the full set of user-chosen filters for one view.
// An empty Categories slice selects no rows.
type Constraints struct {
	Categories []string `json:"categories"`
	Written    Range    `json:"written"`
	Interview  Range    `json:"interview"`
	Year       Range    `json:"year"`
	Rank       Range    `json:"rank"`
}

// Clone returns a copy that shares no memory with c.
func (c Constraints) Clone() Constraints {
	out := c
	out.Categories = append(make([]string, 0, len(c.Categories)), c.Categories...)
	return out
}

// ConstraintsRequest is a partial constraint set sent by a client. Nil
// fields take the dashboard defaults. A non-nil empty Categories slice is
// an explicit "select nothing".
type ConstraintsRequest struct {
	Categories []string `json:"categories,omitempty" validate:"omitempty,max=64,dive,category,max=64"`
	Written    *Range   `json:"written,omitempty"`
	Interview  *Range   `json:"interview,omitempty"`
	Year       *Range   `json:"year,omitempty"`
	Rank       *Range   `json:"rank,omitempty"`
}

// Resolve fills every unset field of r from defaults.
func (r ConstraintsRequest) Resolve(defaults Constraints) Constraints {
	out := defaults.Clone()
	if r.Categories != nil {
		out.Categories = append(make([]string, 0, len(r.Categories)), r.Categories...)
	}
	if r.Written != nil {
		out.Written = *r.Written
	}
	if r.Interview != nil {
		out.Interview = *r.Interview
	}
	if r.Year != nil {
		out.Year = *r.Year
	}
	if r.Rank != nil {
		out.Rank = *r.Rank
	}
	return out
}
