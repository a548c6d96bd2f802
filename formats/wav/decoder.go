// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audmood/audio"
	"github.com/ik5/audmood/internal/sample"
)

const (
	formatPCM        = 1
	formatFloat      = 3
	formatExtensible = 0xFFFE
)

type wavSource struct {
	dec        *gowav.Decoder
	sampleRate int
	channels   int
	bitDepth   int
	buf        *goaudio.IntBuffer
	eof        bool
}

func (s *wavSource) SampleRate() int { return s.sampleRate }
func (s *wavSource) Channels() int   { return s.channels }
func (s *wavSource) Close() error    { return nil }

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	if cap(s.buf.Data) < want {
		s.buf.Data = make([]int, want)
	}
	s.buf.Data = s.buf.Data[:want]

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, fmt.Errorf("decode wav samples: %w", err)
	}

	// A truncated file can end mid-frame.
	n -= n % s.channels
	if n <= 0 {
		s.eof = true
		return 0, io.EOF
	}

	for i, v := range s.buf.Data[:n] {
		dst[i] = sample.FromInt(v, s.bitDepth)
	}

	return n, nil
}

// floatSource reads IEEE float samples straight from the data chunk,
// which go-audio/wav only exposes as integers.
type floatSource struct {
	r          io.Reader
	sampleRate int
	channels   int
	width      int // bytes per sample, 4 or 8
	raw        []byte
	eof        bool
}

func (s *floatSource) SampleRate() int { return s.sampleRate }
func (s *floatSource) Channels() int   { return s.channels }
func (s *floatSource) Close() error    { return nil }

func (s *floatSource) ReadSamples(dst []float32) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	if cap(s.raw) < want*s.width {
		s.raw = make([]byte, want*s.width)
	}
	raw := s.raw[:want*s.width]

	m, err := io.ReadFull(s.r, raw)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, fmt.Errorf("decode wav samples: %w", err)
	}

	n := m / s.width
	n -= n % s.channels
	if n == 0 {
		s.eof = true
		return 0, io.EOF
	}

	for i := range n {
		b := raw[i*s.width:]
		if s.width == 8 {
			dst[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(b)))
		} else {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b))
		}
	}

	if err != nil {
		s.eof = true
	}
	return n, nil
}

// Decoder reads WAV files through go-audio/wav: integer PCM at 8, 16, 24
// and 32 bit, and IEEE float at 32 and 64 bit, either plain or wrapped in
// WAVE_FORMAT_EXTENSIBLE. Any channel count and rate is accepted.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read wav: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}

	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrInvalidFormat, dec.NumChans, dec.SampleRate)
	}

	encoding := dec.WavAudioFormat
	if encoding == formatExtensible {
		sub, err := subFormat(rs)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		encoding = sub
	}

	switch encoding {
	case formatPCM:
		switch dec.BitDepth {
		case 8, 16, 24, 32:
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
		}
	case formatFloat:
		switch dec.BitDepth {
		case 32, 64:
		default:
			return nil, fmt.Errorf("%w: %d-bit float", ErrUnsupportedBitDepth, dec.BitDepth)
		}
	default:
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedEncoding, encoding)
	}

	if err := dec.FwdToPCM(); err != nil || dec.PCMChunk == nil {
		if err == nil {
			err = dec.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrMissingPCMData, err)
	}

	channels := int(dec.NumChans)

	if encoding == formatFloat {
		chunk := dec.PCMChunk
		return &floatSource{
			r:          io.LimitReader(chunk, int64(chunk.Size-chunk.Pos)),
			sampleRate: int(dec.SampleRate),
			channels:   channels,
			width:      int(dec.BitDepth) / 8,
		}, nil
	}

	return &wavSource{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   channels,
		bitDepth:   int(dec.BitDepth),
		buf: &goaudio.IntBuffer{
			Format: &goaudio.Format{NumChannels: channels, SampleRate: int(dec.SampleRate)},
			Data:   make([]int, 4096*channels),
		},
	}, nil
}

// subFormat returns the format tag carried in the SubFormat GUID of a
// WAVE_FORMAT_EXTENSIBLE fmt chunk. go-audio/wav skips that extension, so
// the chunk is walked again and rs is left where it was.
func subFormat(rs io.ReadSeeker) (uint16, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	defer rs.Seek(pos, io.SeekStart) //nolint:errcheck

	if _, err := rs.Seek(12, io.SeekStart); err != nil {
		return 0, err
	}

	var hdr [8]byte
	for {
		if _, err := io.ReadFull(rs, hdr[:]); err != nil {
			return 0, fmt.Errorf("fmt chunk not found: %w", err)
		}
		size := int64(binary.LittleEndian.Uint32(hdr[4:]))

		if string(hdr[:4]) != "fmt " {
			if _, err := rs.Seek(size+size%2, io.SeekCurrent); err != nil {
				return 0, err
			}
			continue
		}

		if size < 40 {
			return 0, fmt.Errorf("extensible fmt chunk is %d bytes", size)
		}
		var ext [40]byte
		if _, err := io.ReadFull(rs, ext[:]); err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint16(ext[24:]), nil
	}
}
