// SPDX-License-Identifier: MIT
// Package kernel: sentinel error set.
// Every specific input violation wraps ErrInvalidInput, so callers can match
// either the umbrella (errors.Is(err, ErrInvalidInput)) or the precise cause
// (errors.Is(err, ErrInvalidSigma)). Resource exhaustion is ErrAllocation.
// No routine panics on user input; option constructors panic on nonsensical
// values (programmer error), matching the matrix package convention.

package kernel

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the umbrella for every rejected argument.
	ErrInvalidInput = errors.New("kernel: invalid input")

	// ErrDimensionMismatch: descriptor vectors of A and B differ in length.
	ErrDimensionMismatch = fmt.Errorf("%w: descriptor dimension mismatch", ErrInvalidInput)

	// ErrInvalidSigma: sigma is not a finite value > 0.
	ErrInvalidSigma = fmt.Errorf("%w: sigma must be finite and > 0", ErrInvalidInput)

	// ErrNonFinite: a descriptor holds NaN or ±Inf while finite validation is on.
	ErrNonFinite = fmt.Errorf("%w: non-finite descriptor value", ErrInvalidInput)

	// ErrNilInput: a nil collection was passed.
	ErrNilInput = fmt.Errorf("%w: nil descriptor collection", ErrInvalidInput)

	// ErrAllocation: the result (or a normalised copy of an input) would exceed
	// the byte budget or overflow the address space.
	ErrAllocation = errors.New("kernel: allocation exceeds limit")
)

// kernelErrorf tags sentinel with the operation and, when present, the
// underlying cause. Both remain matchable with errors.Is.
func kernelErrorf(op string, sentinel, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", op, sentinel)
	}

	return fmt.Errorf("%s: %w: %w", op, sentinel, cause)
}
