// SPDX-License-Identifier: EPL-2.0

package capture

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ik5/audmood/formats/wav"
	"github.com/rs/zerolog"
)

const (
	DefaultSampleRate  = 16000
	DefaultMaxDuration = 60 * time.Second
	DefaultOutputPath  = "recorded_audio.wav"
)

// Stream is a live input that delivers mono float32 chunks to a sink
// between Start and Stop.
type Stream interface {
	Start() error
	Stop() error
	Close() error
}

type state int

const (
	stateIdle state = iota
	stateRecording
	stateFull
	stateStopping
	stateStopped
)

// Session accumulates the chunks a Stream delivers and hands them over
// once. Append may be called from the stream's callback thread while
// other methods run on the caller's.
type Session struct {
	mu     sync.Mutex
	state  state
	stream Stream
	buf    []float32
	full   chan struct{}
	capped bool

	rate       int
	maxDur     time.Duration
	maxSamples int
	log        zerolog.Logger
}

type Option func(*Session)

func WithSampleRate(rate int) Option {
	return func(s *Session) { s.rate = rate }
}

// WithMaxDuration caps the recording. Zero or less disables the cap.
func WithMaxDuration(d time.Duration) Option {
	return func(s *Session) { s.maxDur = d }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

func NewSession(opts ...Option) *Session {
	s := &Session{
		rate:   DefaultSampleRate,
		maxDur: DefaultMaxDuration,
		full:   make(chan struct{}),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxDur > 0 {
		s.maxSamples = int(s.maxDur.Seconds() * float64(s.rate))
	}
	s.log = s.log.With().Str("component", "capture").Logger()
	return s
}

func (s *Session) SampleRate() int { return s.rate }

// Start begins accepting chunks and starts stream. The session is marked
// recording first so the earliest callbacks are kept.
func (s *Session) Start(stream Stream) error {
	if stream == nil {
		return ErrNilStream
	}

	s.mu.Lock()
	if s.state != stateIdle {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.state = stateRecording
	s.stream = stream
	s.mu.Unlock()

	if err := stream.Start(); err != nil {
		s.mu.Lock()
		s.state = stateStopped
		s.stream = nil
		s.mu.Unlock()
		return errors.Join(fmt.Errorf("start stream: %w", err), stream.Close())
	}

	s.log.Debug().Int("rate", s.rate).Int("max_samples", s.maxSamples).Msg("recording started")
	return nil
}

// Append copies chunk onto the buffer. Chunks arriving before Start,
// after Stop or past the cap are dropped.
func (s *Session) Append(chunk []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capped || (s.state != stateRecording && s.state != stateStopping) {
		return
	}

	if s.maxSamples > 0 {
		room := s.maxSamples - len(s.buf)
		if len(chunk) >= room {
			chunk = chunk[:room]
			s.capped = true
			s.state = stateFull
			close(s.full)
		}
	}
	s.buf = append(s.buf, chunk...)
}

// Full is closed once the cap is reached.
func (s *Session) Full() <-chan struct{} { return s.full }

// Recording reports whether chunks are currently accepted.
func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateRecording
}

// Duration is the length of audio captured so far.
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	n := len(s.buf)
	s.mu.Unlock()
	return time.Duration(float64(n) / float64(s.rate) * float64(time.Second))
}

// Stop stops and closes the stream, then returns everything captured.
// Only the first call hands over samples; later ones return
// ErrNotRecording. Stream errors are reported alongside the samples.
func (s *Session) Stop() ([]float32, error) {
	s.mu.Lock()
	if s.state != stateRecording && s.state != stateFull {
		s.mu.Unlock()
		return nil, ErrNotRecording
	}
	s.state = stateStopping
	stream := s.stream
	s.mu.Unlock()

	// The stream may still call Append until Stop returns.
	var errs []error
	if err := stream.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop stream: %w", err))
	}
	if err := stream.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close stream: %w", err))
	}

	s.mu.Lock()
	samples := s.buf
	s.buf = nil
	s.stream = nil
	s.state = stateStopped
	s.mu.Unlock()

	s.log.Debug().Int("samples", len(samples)).Msg("recording stopped")
	return samples, errors.Join(errs...)
}

// Finish stops the session and writes the recording as 16-bit mono WAV,
// overwriting path. An empty path means DefaultOutputPath.
func (s *Session) Finish(path string) (string, error) {
	if path == "" {
		path = DefaultOutputPath
	}

	samples, err := s.Stop()
	if errors.Is(err, ErrNotRecording) {
		return "", err
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("stream did not shut down cleanly")
	}

	if err := wav.WriteFile(path, s.rate, samples); err != nil {
		return "", fmt.Errorf("save recording: %w", err)
	}

	s.log.Info().Str("path", path).Int("samples", len(samples)).Msg("recording saved")
	return path, nil
}
