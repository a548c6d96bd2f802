// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"
	"testing/iotest"

	"github.com/ik5/audmood/internal/audiotest"
)

func readAll(t *testing.T, data []byte) ([]float32, int, int) {
	t.Helper()

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	var out []float32
	buf := make([]float32, 6)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	return out, src.SampleRate(), src.Channels()
}

func TestDecoder_BitDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bits int
		data []byte
		want []float32
	}{
		{name: "8-bit unsigned", bits: 8, data: []byte{128, 255, 0, 192}, want: []float32{0, 127.0 / 128, -1, 0.5}},
		{name: "16-bit", bits: 16, data: audiotest.PCM16(0, 16384, -32768, -16384), want: []float32{0, 0.5, -1, -0.5}},
		{name: "24-bit", bits: 24, data: []byte{0, 0, 0, 0, 0, 0x40, 0, 0, 0x80, 0, 0, 0xC0}, want: []float32{0, 0.5, -1, -0.5}},
		{name: "32-bit", bits: 32, data: []byte{0, 0, 0, 0, 0, 0, 0, 0x40, 0, 0, 0, 0x80, 0, 0, 0, 0xC0}, want: []float32{0, 0.5, -1, -0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := audiotest.WAVFile{Rate: 8000, Channels: 1, Bits: tt.bits, Data: tt.data}
			got, rate, chans := readAll(t, f.Bytes())

			if rate != 8000 || chans != 1 {
				t.Errorf("format = %d Hz x %d, want 8000 Hz x 1", rate, chans)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if math.Abs(float64(got[i]-tt.want[i])) > 1e-6 {
					t.Errorf("sample %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecoder_Float(t *testing.T) {
	t.Parallel()

	want := []float32{0, 0.25, -1, 0.5, -0.125}

	tests := []struct {
		name string
		file audiotest.WAVFile
	}{
		{name: "float32", file: audiotest.WAVFile{FormatTag: 3, Bits: 32, Data: audiotest.Float32LE(want)}},
		{name: "float64", file: audiotest.WAVFile{FormatTag: 3, Bits: 64, Data: audiotest.Float64LE(0, 0.25, -1, 0.5, -0.125)}},
		{name: "extensible float32", file: audiotest.WAVFile{FormatTag: 0xFFFE, SubFormat: 3, Bits: 32, Data: audiotest.Float32LE(want)}},
		{name: "extensible pcm16", file: audiotest.WAVFile{FormatTag: 0xFFFE, SubFormat: 1, Bits: 16, Data: audiotest.PCM16(0, 8192, -32768, 16384, -4096)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tt.file.Rate = 16000
			tt.file.Channels = 1
			tt.file.Extra = []audiotest.Chunk{{ID: "fact", Data: make([]byte, 4)}}

			got, rate, chans := readAll(t, tt.file.Bytes())

			if rate != 16000 || chans != 1 {
				t.Errorf("format = %d Hz x %d, want 16000 Hz x 1", rate, chans)
			}
			if len(got) != len(want) {
				t.Fatalf("len = %d, want %d", len(got), len(want))
			}
			for i := range want {
				if math.Abs(float64(got[i]-want[i])) > 1e-6 {
					t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestDecoder_FloatStereoTruncated(t *testing.T) {
	t.Parallel()

	// The last frame is missing its right channel.
	data := audiotest.Float32LE([]float32{0.5, -0.5, 0.25, -0.25, 1})
	f := audiotest.WAVFile{FormatTag: 3, Rate: 44100, Channels: 2, Bits: 32, Data: data}

	got, _, chans := readAll(t, f.Bytes())

	if chans != 2 {
		t.Errorf("Channels() = %d, want 2", chans)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[3] != -0.25 {
		t.Errorf("got[3] = %v, want -0.25", got[3])
	}
}

func TestDecoder_Stereo(t *testing.T) {
	t.Parallel()

	f := audiotest.WAVFile{Rate: 44100, Channels: 2, Bits: 16, Data: audiotest.PCM16(100, -100, 200, -200, 300, -300)}
	got, rate, chans := readAll(t, f.Bytes())

	if rate != 44100 || chans != 2 {
		t.Fatalf("format = %d Hz x %d, want 44100 Hz x 2", rate, chans)
	}
	if len(got) != 6 {
		t.Fatalf("len = %d, want 6", len(got))
	}
	for i := 0; i < len(got); i += 2 {
		if got[i] != -got[i+1] {
			t.Errorf("frame %d = (%v, %v), want mirrored channels", i/2, got[i], got[i+1])
		}
	}
}

func TestDecoder_ExtraChunks(t *testing.T) {
	t.Parallel()

	f := audiotest.WAVFile{
		Rate:     16000,
		Channels: 1,
		Bits:     16,
		Extra:    []audiotest.Chunk{{ID: "JUNK", Data: make([]byte, 28)}},
		Data:     audiotest.PCM16(1000, 2000, 3000),
	}
	got, _, _ := readAll(t, f.Bytes())

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if math.Abs(float64(got[2])-3000.0/32768) > 1e-6 {
		t.Errorf("got[2] = %v, want %v", got[2], 3000.0/32768)
	}
}

func TestDecoder_EmptyData(t *testing.T) {
	t.Parallel()

	f := audiotest.WAVFile{Rate: 16000, Channels: 1, Bits: 16}
	got, _, _ := readAll(t, f.Bytes())

	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestDecoder_NonSeekableReader(t *testing.T) {
	t.Parallel()

	f := audiotest.WAVFile{Rate: 8000, Channels: 1, Bits: 16, Data: audiotest.PCM16(1, 2, 3, 4)}

	src, err := Decoder{}.Decode(iotest.OneByteReader(bytes.NewReader(f.Bytes())))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	buf := make([]float32, 8)
	n, _ := src.ReadSamples(buf)
	if n != 4 {
		t.Errorf("ReadSamples() = %d, want 4", n)
	}
}

func TestDecoder_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "not riff", data: []byte("ID3\x03\x00\x00\x00\x00\x00\x00 this is an mp3"), want: ErrNotWavFile},
		{name: "empty input", data: nil, want: ErrNotWavFile},
		{name: "16-bit float", data: audiotest.WAVFile{FormatTag: 3, Rate: 8000, Channels: 1, Bits: 16, Data: make([]byte, 8)}.Bytes(), want: ErrUnsupportedBitDepth},
		{name: "extensible mu-law", data: audiotest.WAVFile{FormatTag: 0xFFFE, SubFormat: 7, Rate: 8000, Channels: 1, Bits: 8, Data: make([]byte, 8)}.Bytes(), want: ErrUnsupportedEncoding},
		{name: "mu-law", data: audiotest.WAVFile{FormatTag: 7, Rate: 8000, Channels: 1, Bits: 8, Data: make([]byte, 8)}.Bytes(), want: ErrUnsupportedEncoding},
		{name: "12-bit", data: audiotest.WAVFile{Rate: 8000, Channels: 1, Bits: 12, Data: make([]byte, 8)}.Bytes(), want: ErrUnsupportedBitDepth},
		{name: "zero channels", data: audiotest.WAVFile{Rate: 8000, Channels: 0, Bits: 16}.Bytes(), want: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSource_ReadSamples_EOFIsSticky(t *testing.T) {
	t.Parallel()

	f := audiotest.WAVFile{Rate: 8000, Channels: 1, Bits: 16, Data: audiotest.PCM16(5, 6)}
	src, err := Decoder{}.Decode(bytes.NewReader(f.Bytes()))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	buf := make([]float32, 16)
	if n, err := src.ReadSamples(buf); n != 2 || err != nil {
		t.Fatalf("first read = (%d, %v), want (2, nil)", n, err)
	}
	for range 2 {
		if n, err := src.ReadSamples(buf); n != 0 || !errors.Is(err, io.EOF) {
			t.Fatalf("read after end = (%d, %v), want (0, EOF)", n, err)
		}
	}
}

func TestSource_ReadSamples_TinyBuffer(t *testing.T) {
	t.Parallel()

	f := audiotest.WAVFile{Rate: 8000, Channels: 2, Bits: 16, Data: audiotest.PCM16(1, 2)}
	src, err := Decoder{}.Decode(bytes.NewReader(f.Bytes()))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if n, err := src.ReadSamples(make([]float32, 1)); n != 0 || err != nil {
		t.Errorf("ReadSamples(1) on stereo = (%d, %v), want (0, nil)", n, err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	f := audiotest.WAVFile{Rate: 16000, Channels: 1, Bits: 16, Data: audiotest.Float16(audiotest.Sine(16000, 16000, 220, 0.5))}
	data := f.Bytes()
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		src, _ := Decoder{}.Decode(bytes.NewReader(data))
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
