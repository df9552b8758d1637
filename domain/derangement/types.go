package derangement

import (
	"math"
)

// Reference is the limiting probability that a random permutation is a derangement
var Reference = 1 / math.E

// Permutation is an arrangement of the labels 1..n with no duplicates
type Permutation []int

// Len returns the number of items in the arrangement
func (p Permutation) Len() int {
	return len(p)
}

// Row is one point of the convergence curve
type Row struct {
	Iteration int     `json:"iterations"`
	Ratio     float64 `json:"ratio"`
	Reference float64 `json:"1/e"`
}

// Column names used by every consumer that tabulates a Series
const (
	ColumnIteration = "iterations"
	ColumnRatio     = "ratio"
	ColumnReference = "1/e"
)

// Columns returns the field set of a series in display order
func Columns() []string {
	return []string{ColumnIteration, ColumnRatio, ColumnReference}
}

// Series is the running derangement ratio for one run, one row per trial.
// Built once and not modified afterwards.
type Series struct {
	ItemCount    int   `json:"chocolates"`
	TrialCount   int   `json:"iterations"`
	Derangements int   `json:"derangements"`
	Rows         []Row `json:"rows"`
}

// Len returns the number of rows
func (s *Series) Len() int {
	return len(s.Rows)
}

// Final returns the last row of the series
func (s *Series) Final() (Row, bool) {
	if len(s.Rows) == 0 {
		return Row{}, false
	}
	return s.Rows[len(s.Rows)-1], true
}

// Ratios extracts the ratio column
func (s *Series) Ratios() []float64 {
	out := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.Ratio
	}
	return out
}
