// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"
)

// MockSource synthesises frames from a waveform function. It satisfies
// audio.Source without importing it.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int
	pos        int
	waveform   func(frame, channel int) float32
}

// NewMockSource returns a source of frames frames, each sample computed by
// waveform.
func NewMockSource(sampleRate, channels, frames int, waveform func(frame, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   waveform,
	}
}

func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

// NewSineSource is a full-scale sine on every channel.
func NewSineSource(sampleRate, channels, frames int, freq float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(i, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate)))
	})
}

func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) Close() error    { return nil }

// ReadSamples fills whole frames and returns io.EOF with the last ones.
func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.pos >= m.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.pos)
	for f := range n {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.pos+f, ch)
		}
	}
	m.pos += n

	if m.pos >= m.frames {
		return n * m.channels, io.EOF
	}
	return n * m.channels, nil
}

// SliceSource replays fixed interleaved samples, at most Chunk values per read.
type SliceSource struct {
	Rate    int
	Chans   int
	Samples []float32
	Chunk   int
	Closed  bool
	pos     int
}

func (s *SliceSource) SampleRate() int { return s.Rate }
func (s *SliceSource) Channels() int   { return s.Chans }

func (s *SliceSource) Close() error {
	s.Closed = true
	return nil
}

func (s *SliceSource) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.Samples) {
		return 0, io.EOF
	}

	n := len(dst)
	if s.Chunk > 0 && n > s.Chunk {
		n = s.Chunk
	}
	n = copy(dst[:n], s.Samples[s.pos:])
	s.pos += n

	return n, nil
}

// StalledSource never produces data and never ends.
type StalledSource struct {
	Rate  int
	Chans int
	Reads int
}

func (s *StalledSource) SampleRate() int { return s.Rate }
func (s *StalledSource) Channels() int   { return s.Chans }
func (s *StalledSource) Close() error    { return nil }

func (s *StalledSource) ReadSamples([]float32) (int, error) {
	s.Reads++
	return 0, nil
}

// FailingSource returns Err on every read.
type FailingSource struct {
	Rate  int
	Chans int
	Err   error
}

func (s *FailingSource) SampleRate() int { return s.Rate }
func (s *FailingSource) Channels() int   { return s.Chans }
func (s *FailingSource) Close() error    { return s.Err }

func (s *FailingSource) ReadSamples([]float32) (int, error) {
	return 0, s.Err
}
