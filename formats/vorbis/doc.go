// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio with github.com/jfreymuth/oggvorbis.
//
//	f, _ := os.Open("voice.ogg")
//	src, err := vorbis.Decoder{}.Decode(f)
//
// Samples keep the stream's own channel layout and rate. Input that is not
// an Ogg Vorbis stream is reported as ErrNotVorbisFile.
package vorbis
