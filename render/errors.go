// SPDX-License-Identifier: EPL-2.0

package render

import "errors"

// ErrSourceStalled means the source stopped producing frames before the
// output was full. Sources are padded with silence, so this points at a
// broken streamer.
var ErrSourceStalled = errors.New("source stalled")
