// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audfx/utils"
)

// ResamplerOption configures a Resampler.
type ResamplerOption func(*Resampler)

// WithSpeed plays the source faster (speed > 1) or slower (speed < 1)
// while still producing dstRate output, the way a tape or a buffer
// source with a playback rate does. Pitch follows speed.
func WithSpeed(speed float64) ResamplerOption {
	return func(r *Resampler) {
		if speed > 0 {
			r.speed = speed
		}
	}
}

// WithoutAntiAlias disables the one-pole smoothing applied when the
// effective ratio is above 1.
func WithoutAntiAlias() ResamplerOption {
	return func(r *Resampler) {
		r.antiAlias = false
	}
}

// Resampler streams from src to a target sample rate using cubic
// interpolation on interleaved samples. The channel count is preserved.
type Resampler struct {
	src      Source
	dstRate  float64
	speed    float64
	ratio    float64 // source frames consumed per output frame
	channels int

	// window holds four frames for interpolation: t-1, t0, t+1, t+2.
	window [4][]float32
	valid  [4]bool
	primed bool

	pos    float64
	srcBuf []float32
	eof    bool

	antiAlias bool
	alpha     float32
	lpState   []float32
}

func NewResampler(src Source, dstRate int, opts ...ResamplerOption) *Resampler {
	channels := src.Channels()
	r := &Resampler{
		src:       src,
		dstRate:   float64(dstRate),
		speed:     1,
		channels:  channels,
		srcBuf:    make([]float32, channels),
		antiAlias: true,
		alpha:     0.5,
		lpState:   make([]float32, channels),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.ratio = float64(src.SampleRate()) * r.speed / r.dstRate
	r.antiAlias = r.antiAlias && r.ratio > 1

	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

// Ratio is the number of source frames consumed per output frame.
func (r *Resampler) Ratio() float64 { return r.ratio }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame pulls one frame from the source into dst. It reports whether a
// frame was read; io.EOF is returned alongside the last frame or alone.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	n, err := r.src.ReadSamples(r.srcBuf)
	got := n >= r.channels
	if got {
		copy(dst, r.srcBuf)
		if r.antiAlias {
			for c := range r.channels {
				dst[c] = r.alpha*dst[c] + (1-r.alpha)*r.lpState[c]
				r.lpState[c] = dst[c]
			}
		}
	}

	if err != nil && !errors.Is(err, io.EOF) {
		return got, fmt.Errorf("%w", err)
	}

	return got, err
}

func (r *Resampler) prime() error {
	r.primed = true
	for i := range r.window {
		if r.eof {
			copy(r.window[i], r.window[i-1])
			r.valid[i] = true
			continue
		}

		if i == 0 && r.antiAlias {
			// Seed the filter with the first frame to avoid a fade-in.
			n, err := r.src.ReadSamples(r.srcBuf)
			if n >= r.channels {
				copy(r.lpState, r.srcBuf)
				copy(r.window[0], r.srcBuf)
				r.valid[0] = true
			}
			if errors.Is(err, io.EOF) {
				r.eof = true
				if !r.valid[0] {
					return io.EOF
				}
			} else if err != nil {
				return fmt.Errorf("%w", err)
			}
			continue
		}

		got, err := r.readFrame(r.window[i])
		r.valid[i] = got
		if errors.Is(err, io.EOF) {
			r.eof = true
			if i == 0 && !got {
				return io.EOF
			}
			if !got {
				copy(r.window[i], r.window[i-1])
				r.valid[i] = true
			}
		} else if err != nil {
			return err
		}
	}

	return nil
}

// advance shifts the window by one frame.
func (r *Resampler) advance() error {
	if r.eof {
		return io.EOF
	}

	first := r.window[0]
	copy(r.window[:], r.window[1:])
	copy(r.valid[:], r.valid[1:])
	r.window[3] = first

	got, err := r.readFrame(r.window[3])
	r.valid[3] = got
	if errors.Is(err, io.EOF) {
		r.eof = true
		if !got {
			return io.EOF
		}
		return nil
	}

	return err
}

// ReadSamples produces interleaved samples at the destination rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				if errors.Is(err, io.EOF) {
					return written * r.channels, io.EOF
				}
				return written * r.channels, err
			}
		}

		if !r.valid[1] || !r.valid[2] {
			return written * r.channels, io.EOF
		}

		x := float32(r.pos)
		out := dst[written*r.channels:]
		for c := range r.channels {
			y0 := r.window[1][c]
			if r.valid[0] {
				y0 = r.window[0][c]
			}
			y3 := r.window[2][c]
			if r.valid[3] {
				y3 = r.window[3][c]
			}
			out[c] = utils.CubicInterpolate(y0, r.window[1][c], r.window[2][c], y3, x)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
