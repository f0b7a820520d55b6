// SPDX-License-Identifier: MIT

package kcache

import "errors"

var (
	// ErrNotFound is returned by Get when no entry exists for the key.
	ErrNotFound = errors.New("kcache: not found")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("kcache: closed")

	// ErrCorrupt marks a stored value that does not decode.
	ErrCorrupt = errors.New("kcache: corrupt entry")
)
