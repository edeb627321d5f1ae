// SPDX-License-Identifier: EPL-2.0

package fx

import "errors"

var (
	// ErrInvalidPreset is returned for identifiers outside the catalog.
	ErrInvalidPreset = errors.New("invalid preset")

	// ErrAlreadyStopped is returned by Stop on a source that was stopped before.
	ErrAlreadyStopped = errors.New("source already stopped")

	// ErrInvalidOptions indicates a non-positive sample rate or channel count.
	ErrInvalidOptions = errors.New("invalid graph options")
)
