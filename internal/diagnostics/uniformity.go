package diagnostics

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"chocobox/domain/core"
	"chocobox/domain/derangement"
	"chocobox/ports"
)

const (
	// MaxAuditItems bounds n so the n! tally stays small
	MaxAuditItems = 8
	// minExpectedPerCell keeps the chi-square approximation valid
	minExpectedPerCell = 5
)

// UniformityReport is the outcome of a goodness-of-fit test over all n! orderings
type UniformityReport struct {
	Items            int     `json:"items"`
	Samples          int     `json:"samples"`
	Orderings        int     `json:"orderings"`
	ChiSquare        float64 `json:"chi_square"`
	DegreesOfFreedom int     `json:"degrees_of_freedom"`
	PValue           float64 `json:"p_value"`
	MinCount         int     `json:"min_count"`
	MaxCount         int     `json:"max_count"`
}

// Uniform reports whether the test fails to reject uniformity at significance alpha
func (r UniformityReport) Uniform(alpha float64) bool {
	return r.PValue >= alpha
}

// AuditUniformity draws samples permutations of 1..items and tests whether every
// ordering appears equally often.
func AuditUniformity(sampler ports.PermutationSampler, items, samples int) (*UniformityReport, error) {
	if items < 1 || items > MaxAuditItems {
		return nil, core.NewInvalidArgumentError("items", items, fmt.Sprintf("must be within [1, %d]", MaxAuditItems))
	}
	orderings := factorial(items)
	if samples < orderings*minExpectedPerCell {
		return nil, core.NewInvalidArgumentError("samples", samples,
			fmt.Sprintf("must be at least %d for %d items", orderings*minExpectedPerCell, items))
	}

	observed := make([]float64, orderings)
	for i := 0; i < samples; i++ {
		perm, err := sampler.Sample(items)
		if err != nil {
			return nil, fmt.Errorf("audit sample %d: %w", i, err)
		}
		rank, err := Rank(perm)
		if err != nil {
			return nil, fmt.Errorf("audit sample %d: %w", i, err)
		}
		observed[rank]++
	}

	expected := make([]float64, orderings)
	for i := range expected {
		expected[i] = float64(samples) / float64(orderings)
	}

	report := &UniformityReport{
		Items:            items,
		Samples:          samples,
		Orderings:        orderings,
		DegreesOfFreedom: orderings - 1,
		PValue:           1,
		MinCount:         int(observed[0]),
		MaxCount:         int(observed[0]),
	}
	for _, c := range observed {
		report.MinCount = min(report.MinCount, int(c))
		report.MaxCount = max(report.MaxCount, int(c))
	}

	if report.DegreesOfFreedom > 0 {
		report.ChiSquare = stat.ChiSquare(observed, expected)
		report.PValue = distuv.ChiSquared{K: float64(report.DegreesOfFreedom)}.Survival(report.ChiSquare)
	}
	return report, nil
}

// Rank maps a permutation of 1..n onto its lexicographic index in [0, n!)
func Rank(perm derangement.Permutation) (int, error) {
	n := len(perm)
	used := make([]bool, n+1)
	rank := 0
	for i, label := range perm {
		if label < 1 || label > n || used[label] {
			return 0, fmt.Errorf("%w: %v is not a permutation of 1..%d", core.ErrInvalidArgument, perm, n)
		}
		smaller := 0
		for l := 1; l < label; l++ {
			if !used[l] {
				smaller++
			}
		}
		used[label] = true
		rank += smaller * factorial(n-1-i)
	}
	return rank, nil
}

func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}
