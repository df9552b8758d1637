package app

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chocobox/adapters/rng"
	"chocobox/adapters/sampler"
	"chocobox/domain/core"
	"chocobox/domain/derangement"
)

// MockSampler scripts the permutations handed to the builder
type MockSampler struct {
	mock.Mock
}

func (m *MockSampler) Sample(itemCount int) (derangement.Permutation, error) {
	args := m.Called(itemCount)
	perm, _ := args.Get(0).(derangement.Permutation)
	return perm, args.Error(1)
}

func seededBuilder(seed uint64) *SeriesBuilder {
	return NewSeriesBuilder(sampler.NewPermutationSampler(rng.NewSource(seed)))
}

func TestBuildSeries_Shape(t *testing.T) {
	builder := seededBuilder(42)

	for _, tc := range []struct{ items, trials int }{{1, 1}, {5, 5}, {100, 100}, {3, 250}, {1000, 10}} {
		series, err := builder.BuildSeries(tc.items, tc.trials)
		require.NoError(t, err)
		require.Equal(t, tc.trials, series.Len())
		assert.Equal(t, tc.items, series.ItemCount)
		assert.Equal(t, tc.trials, series.TrialCount)

		prevSuccesses := 0
		for i, row := range series.Rows {
			assert.Equal(t, i+1, row.Iteration)
			assert.Equal(t, 1/math.E, row.Reference)
			assert.GreaterOrEqual(t, row.Ratio, 0.0)
			assert.LessOrEqual(t, row.Ratio, 1.0)

			successes := int(math.Round(row.Ratio * float64(row.Iteration)))
			assert.GreaterOrEqual(t, successes, prevSuccesses, "success count decreased at trial %d", row.Iteration)
			prevSuccesses = successes
		}
		assert.Equal(t, series.Derangements, prevSuccesses)
	}
}

func TestBuildSeries_SingleChocolateNeverDeranges(t *testing.T) {
	builder := seededBuilder(7)

	for _, trials := range []int{1, 2, 17, 500} {
		series, err := builder.BuildSeries(1, trials)
		require.NoError(t, err)
		require.Len(t, series.Rows, trials)
		for _, row := range series.Rows {
			assert.Zero(t, row.Ratio, "trial %d", row.Iteration)
		}
		assert.Zero(t, series.Derangements)
	}
}

func TestBuildSeries_ConvergesToReciprocalE(t *testing.T) {
	series, err := seededBuilder(20240601).BuildSeries(50, 20000)
	require.NoError(t, err)

	final, ok := series.Final()
	require.True(t, ok)
	assert.InDelta(t, 1/math.E, final.Ratio, 0.03)
}

func TestBuildSeries_InvalidInput(t *testing.T) {
	builder := seededBuilder(1)

	for _, tc := range []struct{ items, trials int }{{0, 10}, {10, 0}, {-3, 5}, {0, 0}} {
		series, err := builder.BuildSeries(tc.items, tc.trials)
		assert.Nil(t, series, "(%d,%d) returned a partial series", tc.items, tc.trials)
		require.Error(t, err)
		assert.True(t, core.IsInvalidArgument(err), "(%d,%d): %v", tc.items, tc.trials, err)
	}
}

func TestBuildSeries_ScriptedTrials(t *testing.T) {
	m := new(MockSampler)
	m.On("Sample", 3).Return(derangement.Permutation{1, 2, 3}, nil).Once() // baseline
	m.On("Sample", 3).Return(derangement.Permutation{2, 3, 1}, nil).Once() // derangement
	m.On("Sample", 3).Return(derangement.Permutation{1, 3, 2}, nil).Once() // fixed point at 0
	m.On("Sample", 3).Return(derangement.Permutation{3, 1, 2}, nil).Once() // derangement
	m.On("Sample", 3).Return(derangement.Permutation{3, 2, 1}, nil).Once() // fixed point at 1

	series, err := NewSeriesBuilder(m).BuildSeries(3, 4)
	require.NoError(t, err)
	m.AssertExpectations(t)

	want := []float64{1, 0.5, 2.0 / 3.0, 0.5}
	require.Len(t, series.Rows, len(want))
	for i, row := range series.Rows {
		assert.InDelta(t, want[i], row.Ratio, 1e-12, "trial %d", i+1)
	}
	assert.Equal(t, 2, series.Derangements)
}

func TestBuildSeries_BaselineSampledOnce(t *testing.T) {
	m := new(MockSampler)
	m.On("Sample", 2).Return(derangement.Permutation{1, 2}, nil)

	_, err := NewSeriesBuilder(m).BuildSeries(2, 6)
	require.NoError(t, err)
	m.AssertNumberOfCalls(t, "Sample", 7)
}

func TestBuildSeries_SamplerFailure(t *testing.T) {
	boom := errors.New("entropy exhausted")
	m := new(MockSampler)
	m.On("Sample", 4).Return(derangement.Permutation{1, 2, 3, 4}, nil).Once()
	m.On("Sample", 4).Return(nil, boom).Once()

	series, err := NewSeriesBuilder(m).BuildSeries(4, 3)
	assert.Nil(t, series)
	assert.ErrorIs(t, err, boom)
}

func TestBuildSeries_MismatchedSamplerOutput(t *testing.T) {
	m := new(MockSampler)
	m.On("Sample", 3).Return(derangement.Permutation{1, 2, 3}, nil).Once()
	m.On("Sample", 3).Return(derangement.Permutation{1, 2}, nil).Once()

	_, err := NewSeriesBuilder(m).BuildSeries(3, 1)
	assert.ErrorIs(t, err, core.ErrShapeMismatch)
}

func TestBuildSeries_Reproducible(t *testing.T) {
	a, err := seededBuilder(99).BuildSeries(12, 300)
	require.NoError(t, err)
	b, err := seededBuilder(99).BuildSeries(12, 300)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
