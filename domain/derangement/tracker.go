package derangement

import (
	"chocobox/domain/core"
)

// IsDerangement reports whether candidate shares no position with baseline.
// Both must have the same length; the label sets themselves are not re-validated.
func IsDerangement(baseline, candidate Permutation) (bool, error) {
	if len(baseline) != len(candidate) {
		return false, core.NewShapeMismatchError(len(baseline), len(candidate))
	}
	for i := range baseline {
		if baseline[i] == candidate[i] {
			return false, nil
		}
	}
	return true, nil
}

// RunningStatistic counts completed trials and how many of them were derangements
type RunningStatistic struct {
	TrialsCompleted int `json:"trials_completed"`
	SuccessCount    int `json:"success_count"`
}

// Advance records one trial outcome
func (s *RunningStatistic) Advance(success bool) {
	s.TrialsCompleted++
	if success {
		s.SuccessCount++
	}
}

// Ratio returns SuccessCount/TrialsCompleted. Undefined before the first trial.
func (s RunningStatistic) Ratio() (float64, error) {
	if s.TrialsCompleted == 0 {
		return 0, core.ErrNoTrials
	}
	return float64(s.SuccessCount) / float64(s.TrialsCompleted), nil
}
