package sampler

import (
	"chocobox/domain/core"
	"chocobox/domain/derangement"
	"chocobox/ports"
)

// PermutationSampler draws uniformly random arrangements of the labels 1..n
type PermutationSampler struct {
	src ports.RandomSource
}

// NewPermutationSampler creates a sampler that consumes src
func NewPermutationSampler(src ports.RandomSource) *PermutationSampler {
	return &PermutationSampler{src: src}
}

// Sample returns a fresh permutation of 1..itemCount
func (s *PermutationSampler) Sample(itemCount int) (derangement.Permutation, error) {
	if itemCount < 1 {
		return nil, core.NewInvalidArgumentError("item_count", itemCount, "must be at least 1")
	}

	perm := make(derangement.Permutation, itemCount)
	for i := range perm {
		perm[i] = i + 1
	}

	// Fisher-Yates shuffle
	for i := itemCount - 1; i > 0; i-- {
		j := s.index(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm, nil
}

// index maps the next uniform draw onto [0, n)
func (s *PermutationSampler) index(n int) int {
	j := int(s.src.Float64() * float64(n))
	if j >= n {
		j = n - 1
	}
	return j
}
