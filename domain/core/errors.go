package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Validation errors
	ErrInvalidArgument = errors.New("invalid argument")
	ErrShapeMismatch   = fmt.Errorf("%w: permutation length mismatch", ErrInvalidArgument)

	// Statistic errors
	ErrNoTrials = errors.New("no trials completed")
)

// NewInvalidArgumentError reports a rejected input value
func NewInvalidArgumentError(field string, value int, reason string) error {
	return fmt.Errorf("%w: %s=%d %s", ErrInvalidArgument, field, value, reason)
}

// NewShapeMismatchError reports two permutations that cannot be compared position by position
func NewShapeMismatchError(baselineLen, candidateLen int) error {
	return fmt.Errorf("%w: baseline has %d items, candidate has %d", ErrShapeMismatch, baselineLen, candidateLen)
}

// IsInvalidArgument checks whether err originates from rejected input
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
