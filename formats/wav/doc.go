// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes WAV files on top of github.com/go-audio/wav.
//
// # Decoding
//
// Decoder accepts integer PCM at 8, 16, 24 or 32 bits and IEEE float at
// 32 or 64 bits, tagged directly or through WAVE_FORMAT_EXTENSIBLE, with
// any channel count and any sample rate:
//
//	f, _ := os.Open("clip.wav")
//	src, err := wav.Decoder{}.Decode(f)
//	samples, err := audio.ReadAll(src, 4096)
//
// Samples come out interleaved as float32 in [-1, 1). 8-bit data is
// unsigned and centred on 128. Readers that cannot seek are buffered in
// memory first.
//
// # Writing
//
// WriteFile stores mono float samples as 16-bit PCM, clamping anything
// outside [-1, 1]. An existing file is truncated:
//
//	err := wav.WriteFile("recorded_audio.wav", 16000, samples)
//
// # Errors
//
//   - ErrNotWavFile: the input is not a RIFF/WAVE stream
//   - ErrUnsupportedEncoding: compressed or floating point data
//   - ErrUnsupportedBitDepth: a bit depth other than 8, 16, 24 or 32
//   - ErrInvalidFormat: zero channels or sample rate
//   - ErrMissingPCMData: no data chunk
package wav
