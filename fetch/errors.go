// SPDX-License-Identifier: EPL-2.0

package fetch

import "errors"

var (
	// ErrNetwork is wrapped by every failed fetch.
	ErrNetwork = errors.New("network error")

	// ErrTooLarge means the body exceeded the client's size limit.
	ErrTooLarge = errors.New("response body too large")
)
