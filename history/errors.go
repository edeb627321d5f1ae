// SPDX-License-Identifier: EPL-2.0

package history

import "errors"

var (
	// ErrNotFound is returned by a Store for keys that were never set.
	ErrNotFound = errors.New("key not found")

	// ErrCorrupt marks a persisted document that cannot be used.
	ErrCorrupt = errors.New("history document is corrupt")

	ErrInvalidDataURL = errors.New("invalid data URL")
)
