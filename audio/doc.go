// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming primitives used to bring arbitrary
// decoded audio into the mono 16 kHz shape the feature extractor expects.
//
// The building blocks are:
//   - Source interface for decoded PCM
//   - Resampler for sample rate conversion
//   - MonoMixer for channel mixing
//   - Conform and ReadAll to chain and drain them
//   - Registry mapping file extensions to decoders
//
// # Sources
//
// A Source yields interleaved float32 frames through ReadSamples. Decoders
// in formats/ produce Sources and the Resampler and MonoMixer wrap them,
// so a conversion is a chain of Sources drained by ReadAll.
//
// # Resampling
//
// The Resampler changes the sample rate of audio using cubic interpolation:
//
//	resampler := audio.NewResampler(source, 16000)
//	buf := make([]float32, 4096)
//	n, err := resampler.ReadSamples(buf)
//
// The first output frame equals the first input frame, equal rates pass
// through untouched, and a one-pole low-pass filter runs when downsampling.
//
// # Channel Mixing
//
// The MonoMixer converts multi-channel audio to mono by averaging:
//
//	mono := audio.NewMonoMixer(source)
//	buf := make([]float32, 4096)
//	n, err := mono.ReadSamples(buf)
//
// Conform builds the chain in one call and skips stages that would be
// no-ops:
//
//	src, err := audio.Conform(decoded, 16000)
//	samples, err := audio.ReadAll(src, 4096)
//
// # Format Registry
//
// The registry allows dynamic decoder registration:
//
//	registry := audio.NewRegistry()
//	registry.Register(mp3.Decoder{}, "mp3")
//	registry.Register(vorbis.Decoder{}, "ogg", "oga")
//	decoder, err := registry.Lookup("/uploads/clip.MP3")
//
// Extensions are matched case-insensitively, with or without the dot.
// Lookup fails with ErrUnsupportedFormat for anything unregistered.
//
// # Samples and Errors
//
// Samples are float32 with full scale at ±1. ReadSamples returns io.EOF
// once a source is exhausted, after which it keeps returning io.EOF. A
// source that keeps returning (0, nil) is reported as io.ErrNoProgress by
// the Resampler and ReadAll rather than spinning forever.
package audio
