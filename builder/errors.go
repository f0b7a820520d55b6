// SPDX-License-Identifier: MIT
// Package: lvkernel/builder
//
// errors.go: sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Context is attached with %w at the call site (builderErrorf).
//   • Generators never panic; option constructors do (programmer error).

package builder

import (
	"errors"
	"fmt"
)

// ErrBadSize indicates an invalid count or width (n < 0, width < 0, nmol < 0).
var ErrBadSize = errors.New("builder: invalid size")

// ErrNeedRandSource indicates a stochastic generator ran without a seed or RNG.
var ErrNeedRandSource = errors.New("builder: rng is required")

// builderErrorf prefixes err with the generator name while keeping the
// sentinel matchable: "<Method>: <message>: <sentinel>".
func builderErrorf(method string, sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), sentinel)
}
