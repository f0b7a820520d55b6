// SPDX-License-Identifier: MIT
// Package atomkernel: sentinel error set.
// Input violations wrap kernel.ErrInvalidInput so one errors.Is check covers
// both engines. Sigma, nil-input, non-finite and allocation failures reuse the
// kernel sentinels directly.

package atomkernel

import (
	"fmt"

	"github.com/katalvlaran/lvkernel/kernel"
)

var (
	// ErrWidthMismatch: molecules (or the two batches) disagree on descriptor width.
	ErrWidthMismatch = fmt.Errorf("atomkernel: descriptor width mismatch: %w", kernel.ErrInvalidInput)

	// ErrAtomCount: an atom count is negative, exceeds the padded capacity or
	// the rows a molecule supplies, or the count vector has the wrong length.
	ErrAtomCount = fmt.Errorf("atomkernel: invalid atom count: %w", kernel.ErrInvalidInput)

	// ErrNoSigmas: the sigma list is empty.
	ErrNoSigmas = fmt.Errorf("atomkernel: empty sigma list: %w", kernel.ErrInvalidInput)
)

// atomErrorf tags sentinel with the operation and an optional cause.
func atomErrorf(op string, sentinel, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", op, sentinel)
	}

	return fmt.Errorf("%s: %w: %w", op, sentinel, cause)
}
