// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"context"
	"fmt"
)

// DecodeAll detects the container of data, decodes it with the matching
// registered decoder and returns the whole track. Every failure wraps
// ErrDecode.
func DecodeAll(ctx context.Context, reg *Registry, data []byte) (*Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	format, ok := reg.Detect(data)
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrDecode, ErrUnknownFormat)
	}

	dec, _ := reg.Get(format)
	src, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
	}
	defer src.Close()

	buf, err := ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
	}
	if buf.Frames() == 0 {
		return nil, fmt.Errorf("%w: %w", ErrDecode, ErrEmptyTrack)
	}

	return buf, nil
}
