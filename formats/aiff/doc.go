// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes uncompressed AIFF files with github.com/go-audio/aiff.
//
// 16, 24 and 32-bit big-endian PCM is supported at any rate and channel
// count. go-audio needs random access, so readers that cannot seek are
// buffered in memory first.
//
//	f, _ := os.Open("voice.aiff")
//	src, err := aiff.Decoder{}.Decode(f)
package aiff
