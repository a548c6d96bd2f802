// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// ReadAll drains src into a single interleaved slice. Reads are issued in
// chunks of bufSize samples, rounded down to a whole number of frames.
func ReadAll(src Source, bufSize int) ([]float32, error) {
	channels := max(src.Channels(), 1)
	bufSize = max(bufSize-bufSize%channels, channels)

	buf := make([]float32, bufSize)
	var out []float32
	empty := 0

	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)

		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("read samples: %w", err)
		}

		if n > 0 {
			empty = 0
			continue
		}

		empty++
		if empty >= maxEmptyReads {
			return out, io.ErrNoProgress
		}
	}
}

// Conform wraps src so it yields mono audio at rate. Stages that would be
// no-ops are skipped.
func Conform(src Source, rate int) (Source, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRate, rate)
	}
	if src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: source reports %d", ErrInvalidRate, src.SampleRate())
	}

	out := src
	if out.Channels() > 1 {
		out = NewMonoMixer(out)
	}
	if out.SampleRate() != rate {
		out = NewResampler(out, rate)
	}

	return out, nil
}
