package ports

import "chocobox/domain/derangement"

// PermutationSampler produces uniformly random arrangements of 1..itemCount
type PermutationSampler interface {
	Sample(itemCount int) (derangement.Permutation, error)
}
