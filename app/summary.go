package app

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"chocobox/domain/derangement"
)

// Summary describes how close a run ended to 1/e
type Summary struct {
	FinalRatio    float64 `json:"final_ratio"`
	Reference     float64 `json:"reference"`
	AbsoluteError float64 `json:"absolute_error"`
	TailWindow    int     `json:"tail_window"`
	TailMean      float64 `json:"tail_mean"`
	TailStdDev    float64 `json:"tail_std_dev"`
	Derangements  int     `json:"derangements"`
}

// Summarize computes the end-of-run statistics over the trailing tenth of the series
func Summarize(series *derangement.Series) (Summary, error) {
	final, ok := series.Final()
	if !ok {
		return Summary{}, fmt.Errorf("summarize: series has no rows")
	}

	window := series.Len() / 10
	if window < 1 {
		window = 1
	}
	tail := series.Ratios()[series.Len()-window:]

	mean, err := stats.Mean(tail)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize tail mean: %w", err)
	}
	stdDev, err := stats.StandardDeviation(tail)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize tail spread: %w", err)
	}

	return Summary{
		FinalRatio:    final.Ratio,
		Reference:     derangement.Reference,
		AbsoluteError: math.Abs(final.Ratio - derangement.Reference),
		TailWindow:    window,
		TailMean:      mean,
		TailStdDev:    stdDev,
		Derangements:  series.Derangements,
	}, nil
}
