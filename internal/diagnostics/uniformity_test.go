package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chocobox/adapters/rng"
	"chocobox/adapters/sampler"
	"chocobox/domain/core"
	"chocobox/domain/derangement"
)

// biasedSampler always returns the identity, the worst possible shuffle
type biasedSampler struct{}

func (biasedSampler) Sample(n int) (derangement.Permutation, error) {
	p := make(derangement.Permutation, n)
	for i := range p {
		p[i] = i + 1
	}
	return p, nil
}

func TestRank(t *testing.T) {
	tests := []struct {
		perm derangement.Permutation
		rank int
	}{
		{derangement.Permutation{1}, 0},
		{derangement.Permutation{1, 2, 3}, 0},
		{derangement.Permutation{1, 3, 2}, 1},
		{derangement.Permutation{2, 1, 3}, 2},
		{derangement.Permutation{2, 3, 1}, 3},
		{derangement.Permutation{3, 1, 2}, 4},
		{derangement.Permutation{3, 2, 1}, 5},
		{derangement.Permutation{4, 3, 2, 1}, 23},
	}
	for _, tt := range tests {
		got, err := Rank(tt.perm)
		require.NoError(t, err)
		assert.Equal(t, tt.rank, got, "Rank(%v)", tt.perm)
	}
}

func TestRank_RejectsNonPermutations(t *testing.T) {
	for _, perm := range []derangement.Permutation{{1, 1}, {0, 1}, {1, 4, 2}} {
		_, err := Rank(perm)
		assert.True(t, core.IsInvalidArgument(err), "Rank(%v): %v", perm, err)
	}
}

func TestAuditUniformity_FisherYates(t *testing.T) {
	s := sampler.NewPermutationSampler(rng.NewSource(2024))

	report, err := AuditUniformity(s, 3, 60000)
	require.NoError(t, err)

	assert.Equal(t, 6, report.Orderings)
	assert.Equal(t, 5, report.DegreesOfFreedom)
	assert.True(t, report.Uniform(0.001), "p=%v chi2=%v", report.PValue, report.ChiSquare)
	// every ordering within 5% of 1/6 of the samples
	assert.InDelta(t, 10000, report.MinCount, 500)
	assert.InDelta(t, 10000, report.MaxCount, 500)
}

func TestAuditUniformity_DetectsBias(t *testing.T) {
	report, err := AuditUniformity(biasedSampler{}, 3, 600)
	require.NoError(t, err)

	assert.False(t, report.Uniform(0.001))
	assert.Equal(t, 0, report.MinCount)
	assert.Equal(t, 600, report.MaxCount)
}

func TestAuditUniformity_SingleItem(t *testing.T) {
	report, err := AuditUniformity(biasedSampler{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, report.DegreesOfFreedom)
	assert.Equal(t, 1.0, report.PValue)
}

func TestAuditUniformity_InvalidArguments(t *testing.T) {
	s := sampler.NewPermutationSampler(rng.NewSource(1))

	_, err := AuditUniformity(s, 0, 100)
	assert.True(t, core.IsInvalidArgument(err))
	_, err = AuditUniformity(s, MaxAuditItems+1, 1_000_000)
	assert.True(t, core.IsInvalidArgument(err))
	_, err = AuditUniformity(s, 4, 24*5-1)
	assert.True(t, core.IsInvalidArgument(err))
}
