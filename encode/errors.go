// SPDX-License-Identifier: EPL-2.0

package encode

import "errors"

var (
	// ErrEncoderUnavailable is returned when no encoder is registered under
	// the requested name at call time.
	ErrEncoderUnavailable = errors.New("encoder unavailable")

	// ErrChannelLength is returned when left and right differ in length.
	ErrChannelLength = errors.New("channel length mismatch")
)
