// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio with
// github.com/hajimehoshi/go-mp3.
//
//	f, _ := os.Open("voice.mp3")
//	src, err := mp3.Decoder{}.Decode(f)
//
// Output is always interleaved stereo at the file's own sample rate; mono
// files are duplicated onto both channels by go-mp3. Use audio.Conform to
// get a mono stream at the rate you need:
//
//	mono16k, err := audio.Conform(src, 16000)
//
// Input that go-mp3 cannot sync to is reported as ErrNotMP3File.
package mp3
