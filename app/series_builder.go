package app

import (
	"fmt"

	"chocobox/domain/core"
	"chocobox/domain/derangement"
	"chocobox/ports"
)

// SeriesBuilder runs the drop-and-replace trials for one simulation
type SeriesBuilder struct {
	sampler ports.PermutationSampler
}

// NewSeriesBuilder creates a builder drawing permutations from sampler
func NewSeriesBuilder(sampler ports.PermutationSampler) *SeriesBuilder {
	return &SeriesBuilder{sampler: sampler}
}

// BuildSeries compares trialCount fresh permutations against one baseline and
// records the running derangement ratio after every trial.
func (b *SeriesBuilder) BuildSeries(itemCount, trialCount int) (*derangement.Series, error) {
	if itemCount < 1 {
		return nil, core.NewInvalidArgumentError("item_count", itemCount, "must be at least 1")
	}
	if trialCount < 1 {
		return nil, core.NewInvalidArgumentError("trial_count", trialCount, "must be at least 1")
	}

	baseline, err := b.sampler.Sample(itemCount)
	if err != nil {
		return nil, fmt.Errorf("sample baseline: %w", err)
	}

	rows := make([]derangement.Row, 0, trialCount)
	var stat derangement.RunningStatistic
	for trial := 1; trial <= trialCount; trial++ {
		candidate, err := b.sampler.Sample(itemCount)
		if err != nil {
			return nil, fmt.Errorf("sample trial %d: %w", trial, err)
		}
		deranged, err := derangement.IsDerangement(baseline, candidate)
		if err != nil {
			return nil, fmt.Errorf("classify trial %d: %w", trial, err)
		}
		stat.Advance(deranged)

		ratio, err := stat.Ratio()
		if err != nil {
			return nil, err
		}
		rows = append(rows, derangement.Row{
			Iteration: trial,
			Ratio:     ratio,
			Reference: derangement.Reference,
		})
	}

	return &derangement.Series{
		ItemCount:    itemCount,
		TrialCount:   trialCount,
		Derangements: stat.SuccessCount,
		Rows:         rows,
	}, nil
}
