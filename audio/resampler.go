// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmood/internal/sample"
)

const (
	resampleBufFrames = 1024
	maxEmptyReads     = 100
)

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// A one-pole low-pass filter runs on the input when downsampling.
//
// The first output frame is the first input frame, and output stops once the
// interpolation position passes the last input frame, so a stream of N frames
// yields ceil(N*dst/src) frames. Equal rates pass samples through unchanged.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	// frames[1] and frames[2] bracket the current position;
	// frames[0] and frames[3] are the outer cubic taps.
	frames [4][]float32
	valid  [4]bool
	pos    float64

	srcBuf []float32
	head   int
	tail   int
	srcEOF bool
	primed bool
	done   bool

	useFilter   bool
	warm        bool
	filterAlpha float32
	filterState []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := max(src.Channels(), 1)
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:         src,
		dstRate:     dstRate,
		ratio:       ratio,
		channels:    channels,
		srcBuf:      make([]float32, resampleBufFrames*channels),
		useFilter:   ratio > 1.0,
		filterAlpha: 0.5,
		filterState: make([]float32, channels),
	}

	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("close resampler source: %w", err)
	}
	return nil
}

// nextFrame copies one input frame into dst. It reports false once the
// source is drained.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	empty := 0
	for r.head >= r.tail {
		if r.srcEOF {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.srcBuf)
		n -= n % r.channels
		r.head, r.tail = 0, n

		switch {
		case errors.Is(err, io.EOF):
			r.srcEOF = true
		case err != nil:
			return false, fmt.Errorf("read resampler source: %w", err)
		case n == 0:
			empty++
			if empty >= maxEmptyReads {
				return false, io.ErrNoProgress
			}
		}
	}

	copy(dst, r.srcBuf[r.head:r.head+r.channels])
	r.head += r.channels

	switch {
	case !r.useFilter:
	case !r.warm:
		// Seed the filter with the first frame to avoid a warm-up transient.
		copy(r.filterState, dst)
		r.warm = true
	default:
		for c := range r.channels {
			// y[n] = alpha * x[n] + (1-alpha) * y[n-1]
			dst[c] = r.filterAlpha*dst[c] + (1-r.filterAlpha)*r.filterState[c]
			r.filterState[c] = dst[c]
		}
	}

	return true, nil
}

func (r *Resampler) prime() error {
	ok, err := r.nextFrame(r.frames[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}

	copy(r.frames[0], r.frames[1])
	r.valid[0], r.valid[1] = true, true

	for i := 2; i < 4; i++ {
		ok, err := r.nextFrame(r.frames[i])
		if err != nil {
			return err
		}
		r.valid[i] = ok
	}

	r.primed = true
	return nil
}

func (r *Resampler) advance() error {
	r.frames[0], r.frames[1], r.frames[2], r.frames[3] = r.frames[1], r.frames[2], r.frames[3], r.frames[0]
	r.valid[0], r.valid[1], r.valid[2] = r.valid[1], r.valid[2], r.valid[3]
	r.valid[3] = false

	if !r.valid[2] {
		return nil
	}

	ok, err := r.nextFrame(r.frames[3])
	if err != nil {
		return err
	}
	r.valid[3] = ok

	return nil
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.done {
		return 0, io.EOF
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			if errors.Is(err, io.EOF) {
				r.done = true
			}
			return 0, err
		}
	}

	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.valid[1] {
			r.done = true
			return written * r.channels, io.EOF
		}

		alpha := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]

		for c := range r.channels {
			y0 := r.frames[0][c]
			y1 := r.frames[1][c]
			y2 := y1
			if r.valid[2] {
				y2 = r.frames[2][c]
			}
			y3 := y2
			if r.valid[3] {
				y3 = r.frames[3][c]
			}

			out[c] = sample.Cubic(y0, y1, y2, y3, alpha)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
