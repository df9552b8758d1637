package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// SeriesHash fingerprints a convergence series so replays with the same seed can be compared
type SeriesHash Hash

func (h SeriesHash) String() string { return Hash(h).String() }

// ComputeSeriesHash hashes the run shape followed by the exact bits of every ratio
func ComputeSeriesHash(itemCount, trialCount int, ratios []float64) SeriesHash {
	data := make([]byte, 0, 16+8*len(ratios))
	data = binary.BigEndian.AppendUint64(data, uint64(itemCount))
	data = binary.BigEndian.AppendUint64(data, uint64(trialCount))
	for _, r := range ratios {
		data = binary.BigEndian.AppendUint64(data, math.Float64bits(r))
	}
	return SeriesHash(NewHash(data))
}
