// SPDX-License-Identifier: EPL-2.0

package normalize

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ik5/audmood/audio"
	"github.com/ik5/audmood/formats/aiff"
	"github.com/ik5/audmood/formats/mp3"
	"github.com/ik5/audmood/formats/vorbis"
	"github.com/ik5/audmood/formats/wav"
)

const (
	// DefaultSampleRate is the rate every converted file is written at.
	DefaultSampleRate = 16000

	wavExt  = ".wav"
	bufSize = 4096
)

// DefaultRegistry returns the decoders used for non-WAV uploads.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(mp3.Decoder{}, "mp3")
	reg.Register(vorbis.Decoder{}, "ogg", "oga")
	reg.Register(aiff.Decoder{}, "aif", "aiff")

	return reg
}

// SupportedExtensions lists every extension Normalize accepts, WAV included.
func SupportedExtensions() []string {
	return New().Extensions()
}

// Normalizer converts uploads into mono 16-bit PCM WAV files.
type Normalizer struct {
	registry *audio.Registry
	rate     int
	log      zerolog.Logger
}

type Option func(*Normalizer)

func WithRegistry(reg *audio.Registry) Option {
	return func(n *Normalizer) { n.registry = reg }
}

func WithSampleRate(rate int) Option {
	return func(n *Normalizer) { n.rate = rate }
}

func WithLogger(log zerolog.Logger) Option {
	return func(n *Normalizer) { n.log = log }
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		rate: DefaultSampleRate,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.registry == nil {
		n.registry = DefaultRegistry()
	}
	n.log = n.log.With().Str("component", "normalize").Logger()

	return n
}

func (n *Normalizer) Extensions() []string {
	exts := append(n.registry.Extensions(), strings.TrimPrefix(wavExt, "."))
	slices.Sort(exts)
	return slices.Compact(exts)
}

// OutputPath is the sibling WAV path a converted upload is written to.
func OutputPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + wavExt
}

// Normalize returns a path to a WAV rendition of inputPath.
//
// Files with a .wav extension (any case) are returned untouched without
// inspecting their content. Anything else is decoded by extension,
// downmixed to mono, resampled and written next to the input as a 16-bit
// PCM WAV; an existing file at that path is replaced. All failures wrap
// ErrConversion.
func (n *Normalizer) Normalize(inputPath string) (string, error) {
	if strings.EqualFold(filepath.Ext(inputPath), wavExt) {
		n.log.Debug().Str("path", inputPath).Msg("input is already wav")
		return inputPath, nil
	}

	samples, err := n.decode(inputPath)
	if err != nil {
		n.log.Warn().Err(err).Str("path", inputPath).Msg("conversion failed")
		return "", fmt.Errorf("%w: %w", ErrConversion, err)
	}

	out := OutputPath(inputPath)
	if err := wav.WriteFile(out, n.rate, samples); err != nil {
		n.log.Warn().Err(err).Str("path", out).Msg("writing converted file failed")
		return "", fmt.Errorf("%w: %w", ErrConversion, err)
	}

	n.log.Info().
		Str("input", inputPath).
		Str("output", out).
		Int("samples", len(samples)).
		Int("rate", n.rate).
		Msg("converted to wav")

	return out, nil
}

func (n *Normalizer) decode(path string) ([]float32, error) {
	dec, err := n.registry.Lookup(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	defer src.Close()

	conformed, err := audio.Conform(src, n.rate)
	if err != nil {
		return nil, err
	}

	samples, err := audio.ReadAll(conformed, bufSize)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, errNoAudio
	}

	return samples, nil
}
