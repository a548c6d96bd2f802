// SPDX-License-Identifier: EPL-2.0

// Package capture records live audio into a single buffer.
//
// A Session is fed by a Stream (see capture/portaudio for the microphone)
// through Append. Stop shuts the stream down before the buffer is handed
// over, so no chunk can land after the hand-off:
//
//	s := capture.NewSession()
//	stream, err := portaudio.Open(s.Append, s.SampleRate(), 1024)
//	...
//	err = s.Start(stream)
//	...
//	path, err := s.Finish(capture.DefaultOutputPath)
package capture
