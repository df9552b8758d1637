package app

import (
	"context"
	"time"

	"chocobox/adapters/sampler"
	"chocobox/domain/core"
	"chocobox/domain/derangement"
	"chocobox/internal"
	"chocobox/internal/errors"
	"chocobox/ports"
)

// ConvergenceService answers "how fast does the derangement ratio approach 1/e" requests
type ConvergenceService struct {
	rngPort ports.RNGPort
	logger  *internal.Logger
}

// SeriesRequest defines the inputs for one simulation run
type SeriesRequest struct {
	Chocolates int
	Iterations int
	Seed       uint64 // zero picks a fresh seed
}

// Validate rejects requests the simulation cannot run
func (r SeriesRequest) Validate() error {
	if r.Chocolates < 1 {
		return core.NewInvalidArgumentError("chocolates", r.Chocolates, "must be at least 1")
	}
	if r.Iterations < 1 {
		return core.NewInvalidArgumentError("iterations", r.Iterations, "must be at least 1")
	}
	return nil
}

// Run contains the complete output of a simulation
type Run struct {
	RunID     core.RunID          `json:"run_id"`
	Seed      uint64              `json:"seed,string"`
	Series    *derangement.Series `json:"series"`
	Summary   Summary             `json:"summary"`
	Hash      core.SeriesHash     `json:"hash"`
	CreatedAt core.Timestamp      `json:"created_at"`
	RuntimeMs int64               `json:"runtime_ms"`
}

// NewConvergenceService creates a convergence service
func NewConvergenceService(rngPort ports.RNGPort, logger *internal.Logger) *ConvergenceService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ConvergenceService{
		rngPort: rngPort,
		logger:  logger.WithComponent("convergence"),
	}
}

// ComputeConvergenceSeries builds a fresh series for req with its own random stream
func (s *ConvergenceService) ComputeConvergenceSeries(ctx context.Context, req SeriesRequest) (*Run, error) {
	if err := req.Validate(); err != nil {
		s.logger.Warn("rejected request chocolates=%d iterations=%d: %v", req.Chocolates, req.Iterations, err)
		return nil, errors.Wrap(err, "invalid series request")
	}

	startTime := time.Now()
	runID := core.NewRunID()

	src, seed, err := s.rngPort.Stream(ctx, runID, req.Seed)
	if err != nil {
		return nil, errors.ExternalServiceError("rng", err)
	}

	builder := NewSeriesBuilder(sampler.NewPermutationSampler(src))
	series, err := builder.BuildSeries(req.Chocolates, req.Iterations)
	if err != nil {
		return nil, errors.Wrapf(err, "build series for run %s", runID)
	}

	summary, err := Summarize(series)
	if err != nil {
		return nil, errors.Wrap(err, "summarize series")
	}

	run := &Run{
		RunID:     runID,
		Seed:      seed,
		Series:    series,
		Summary:   summary,
		Hash:      core.ComputeSeriesHash(series.ItemCount, series.TrialCount, series.Ratios()),
		CreatedAt: core.Now(),
		RuntimeMs: time.Since(startTime).Milliseconds(),
	}

	s.logger.Debug("run %s chocolates=%d iterations=%d seed=%d final_ratio=%.4f in %dms",
		runID, req.Chocolates, req.Iterations, seed, summary.FinalRatio, run.RuntimeMs)

	return run, nil
}
