// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// Chunk is a raw RIFF chunk placed before the data chunk.
type Chunk struct {
	ID   string
	Data []byte
}

// WAVFile describes a RIFF/WAVE byte stream to build for tests.
type WAVFile struct {
	FormatTag uint16 // 0 means PCM (1)
	SubFormat uint16 // written only when FormatTag is 0xFFFE
	Rate      int
	Channels  int
	Bits      int
	Extra     []Chunk
	Data      []byte
}

// Bytes encodes the file. Odd-sized chunks are padded to even length as
// RIFF requires.
func (w WAVFile) Bytes() []byte {
	tag := w.FormatTag
	if tag == 0 {
		tag = 1
	}

	body := new(bytes.Buffer)
	body.WriteString("WAVE")

	for _, c := range w.Extra {
		writeChunk(body, c.ID, c.Data)
	}

	blockAlign := w.Channels * w.Bits / 8
	fmtChunk := new(bytes.Buffer)
	_ = binary.Write(fmtChunk, binary.LittleEndian, tag)
	_ = binary.Write(fmtChunk, binary.LittleEndian, uint16(w.Channels))
	_ = binary.Write(fmtChunk, binary.LittleEndian, uint32(w.Rate))
	_ = binary.Write(fmtChunk, binary.LittleEndian, uint32(w.Rate*blockAlign))
	_ = binary.Write(fmtChunk, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(fmtChunk, binary.LittleEndian, uint16(w.Bits))
	if tag == 0xFFFE {
		_ = binary.Write(fmtChunk, binary.LittleEndian, uint16(22))
		_ = binary.Write(fmtChunk, binary.LittleEndian, uint16(w.Bits))
		_ = binary.Write(fmtChunk, binary.LittleEndian, uint32(0))
		_ = binary.Write(fmtChunk, binary.LittleEndian, w.SubFormat)
		fmtChunk.Write(guidTail)
	}
	writeChunk(body, "fmt ", fmtChunk.Bytes())

	writeChunk(body, "data", w.Data)

	out := new(bytes.Buffer)
	out.WriteString("RIFF")
	_ = binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

// guidTail completes KSDATAFORMAT_SUBTYPE_* after the format tag.
var guidTail = []byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

func writeChunk(buf *bytes.Buffer, id string, data []byte) {
	buf.WriteString(id)
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	if len(data)%2 == 1 {
		buf.WriteByte(0)
	}
}

// PCM16 packs samples as little-endian 16-bit PCM.
func PCM16(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

// Float32LE packs samples as little-endian IEEE float32.
func Float32LE(samples []float32) []byte {
	out := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(s))
	}
	return out
}

// Float64LE packs samples as little-endian IEEE float64.
func Float64LE(samples ...float64) []byte {
	out := make([]byte, 8*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint64(out[8*i:], math.Float64bits(s))
	}
	return out
}

// Float16 quantises float samples in [-1, 1] to 16-bit PCM bytes.
func Float16(samples []float32) []byte {
	ints := make([]int16, len(samples))
	for i, s := range samples {
		ints[i] = int16(math.Max(-1, math.Min(1, float64(s))) * 32767)
	}
	return PCM16(ints...)
}

// Sine returns n samples of a sine tone at freq Hz and amplitude amp.
func Sine(rate, n int, freq, amp float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

// WriteFile writes data to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// WriteWAV writes a 16-bit PCM WAV fixture with the given interleaved
// samples and returns its path.
func WriteWAV(tb testing.TB, name string, rate, channels int, samples []float32) string {
	tb.Helper()

	f := WAVFile{Rate: rate, Channels: channels, Bits: 16, Data: Float16(samples)}
	return WriteFile(tb, name, f.Bytes())
}
