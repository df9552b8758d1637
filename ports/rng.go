package ports

import (
	"context"

	"chocobox/domain/core"
)

// RandomSource produces uniform values in [0, 1)
type RandomSource interface {
	Float64() float64
}

// RNGPort hands out request-scoped random streams
type RNGPort interface {
	// Stream creates a random source for one run. A zero seed asks the port to pick
	// a fresh one; the seed actually used is returned so the run can be replayed.
	Stream(ctx context.Context, runID core.RunID, seed uint64) (RandomSource, uint64, error)
}
