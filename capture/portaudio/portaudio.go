// SPDX-License-Identifier: EPL-2.0

// Package portaudio opens the default input device as a capture.Stream.
package portaudio

import (
	"errors"
	"fmt"
	"sync"

	pa "github.com/gordonklaus/portaudio"
)

// Stream delivers mono float32 chunks from the default input device to a
// sink. It implements capture.Stream.
type Stream struct {
	stream *pa.Stream
	once   sync.Once
	err    error
}

// Open initialises PortAudio and opens a mono input stream at rate. sink
// runs on the audio thread and must not block; framesPerBuffer sets the
// chunk size.
func Open(sink func([]float32), rate, framesPerBuffer int) (*Stream, error) {
	if sink == nil {
		return nil, errors.New("portaudio: nil sink")
	}
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}

	st, err := pa.OpenDefaultStream(1, 0, float64(rate), framesPerBuffer, func(in []float32) {
		sink(in)
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open input stream: %w", err), pa.Terminate())
	}

	return &Stream{stream: st}, nil
}

func (s *Stream) Start() error {
	if err := s.stream.Start(); err != nil {
		return fmt.Errorf("start input stream: %w", err)
	}
	return nil
}

func (s *Stream) Stop() error {
	if err := s.stream.Stop(); err != nil {
		return fmt.Errorf("stop input stream: %w", err)
	}
	return nil
}

// Close releases the stream and terminates PortAudio. Only the first call
// does any work.
func (s *Stream) Close() error {
	s.once.Do(func() {
		s.err = errors.Join(s.stream.Close(), pa.Terminate())
	})
	return s.err
}
