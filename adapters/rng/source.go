package rng

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"

	"chocobox/domain/core"
	"chocobox/ports"
)

// streamIncrement is the fixed PCG stream selector; the seed alone picks the sequence
const streamIncrement uint64 = 0x9e3779b97f4a7c15

// lockedPCG guards a PCG generator so a Source can be shared between goroutines
type lockedPCG struct {
	mu  sync.Mutex
	pcg *rand.PCG
}

func (l *lockedPCG) Uint64() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pcg.Uint64()
}

// Source draws uniform values from a seeded PCG stream
type Source struct {
	seed    uint64
	uniform distuv.Uniform
}

// NewSource creates a deterministic source for seed
func NewSource(seed uint64) *Source {
	src := &lockedPCG{pcg: rand.NewPCG(seed, streamIncrement)}
	return &Source{
		seed:    seed,
		uniform: distuv.Uniform{Min: 0, Max: 1, Src: src},
	}
}

// Float64 returns the next value in [0, 1)
func (s *Source) Float64() float64 {
	return s.uniform.Rand()
}

// Seed returns the seed the stream was created with
func (s *Source) Seed() uint64 {
	return s.seed
}

// NewSeed generates a non-zero random seed using crypto/rand
func NewSeed() (uint64, error) {
	var b [8]byte
	for {
		if _, err := crand.Read(b[:]); err != nil {
			return 0, fmt.Errorf("read random seed: %w", err)
		}
		if seed := binary.LittleEndian.Uint64(b[:]); seed != 0 {
			return seed, nil
		}
	}
}

// Adapter implements ports.RNGPort with one independent Source per run
type Adapter struct{}

// NewAdapter creates an RNG adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Stream creates the random source for a run
func (a *Adapter) Stream(ctx context.Context, runID core.RunID, seed uint64) (ports.RandomSource, uint64, error) {
	if seed == 0 {
		fresh, err := NewSeed()
		if err != nil {
			return nil, 0, fmt.Errorf("seed stream for run %s: %w", runID, err)
		}
		seed = fresh
	}
	return NewSource(seed), seed, nil
}

var _ ports.RNGPort = (*Adapter)(nil)
