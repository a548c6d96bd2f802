// SPDX-License-Identifier: EPL-2.0

// Package features turns a mono waveform into the fixed-length acoustic
// vector the classifiers consume: time-averaged MFCCs, chroma and mel
// band energies, concatenated in that order.
//
// With DefaultConfig the vector has 40 + 12 + 128 = 180 values regardless
// of clip duration. Extraction is deterministic.
package features

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/ik5/audmood/audio"
	"github.com/ik5/audmood/formats/wav"
)

const readBufSize = 4096

// Vector is the concatenation [MFCC means | chroma means | mel means].
type Vector []float64

// Extractor computes feature vectors. It is immutable after New and safe
// for concurrent use.
type Extractor struct {
	cfg    Config
	window []float64
	mel    *mat.Dense // numMels x bins
	chroma *mat.Dense // numChroma x bins; nil when tuning is estimated per clip
	dct    *mat.Dense // numMFCC x numMels
	log    zerolog.Logger
}

type Option func(*Extractor)

func WithLogger(log zerolog.Logger) Option {
	return func(e *Extractor) { e.log = log }
}

func New(cfg Config, opts ...Option) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Extractor{
		cfg:    cfg,
		window: hannWindow(cfg.FFTSize),
		mel:    melFilterBank(cfg.NumMels, cfg.FFTSize, cfg.SampleRate, 0, float64(cfg.SampleRate)/2),
		dct:    dctBasis(cfg.NumMFCC, cfg.NumMels),
		log:    zerolog.Nop(),
	}
	if cfg.Tuning.Fixed {
		e.chroma = chromaFilterBank(cfg.NumChroma, cfg.FFTSize, cfg.SampleRate, cfg.Tuning.Offset)
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With().Str("component", "features").Logger()

	return e, nil
}

func (e *Extractor) Config() Config { return e.cfg }

// Len is the length of every vector this extractor returns.
func (e *Extractor) Len() int { return e.cfg.Len() }

// ExtractFile loads a WAV file, mixes it to mono, resamples it to the
// configured rate when needed and extracts its feature vector.
func (e *Extractor) ExtractFile(path string) (Vector, error) {
	samples, err := e.load(path)
	if err != nil {
		e.log.Warn().Err(err).Str("path", path).Msg("loading audio failed")
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	return e.Extract(samples)
}

func (e *Extractor) load(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	src, err := wav.Decoder{}.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	defer src.Close()

	conformed, err := audio.Conform(src, e.cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	return audio.ReadAll(conformed, readBufSize)
}

// Extract computes the feature vector of mono samples at the configured
// sample rate.
func (e *Extractor) Extract(samples []float32) (Vector, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyWaveform
	}

	y := make([]float64, len(samples))
	for i, s := range samples {
		y[i] = float64(s)
	}

	power := powerSpectrogram(y, e.window, e.cfg.HopLength)

	var mel mat.Dense
	mel.Mul(power, e.mel.T())

	bank := e.chroma
	tuning := e.cfg.Tuning.Offset
	if bank == nil {
		tuning = estimateTuning(power, e.cfg.SampleRate, e.cfg.NumChroma)
		bank = chromaFilterBank(e.cfg.NumChroma, e.cfg.FFTSize, e.cfg.SampleRate, tuning)
	}

	var chroma mat.Dense
	chroma.Mul(power, bank.T())
	normalizeFrames(&chroma)

	var logMel mat.Dense
	logMel.CloneFrom(&mel)
	powerToDB(&logMel, e.cfg.TopDB)

	var mfcc mat.Dense
	mfcc.Mul(&logMel, e.dct.T())

	vec := make(Vector, 0, e.cfg.Len())
	vec = append(vec, columnMeans(&mfcc)...)
	vec = append(vec, columnMeans(&chroma)...)
	vec = append(vec, columnMeans(&mel)...)

	for i, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite value at index %d", ErrExtraction, i)
		}
	}

	e.log.Debug().
		Int("samples", len(samples)).
		Int("frames", e.cfg.Frames(len(samples))).
		Float64("tuning", tuning).
		Msg("features extracted")

	return vec, nil
}

// MFCC returns the MFCC part of v laid out by cfg.
func (v Vector) MFCC(cfg Config) []float64 { return v[:cfg.NumMFCC] }

// Chroma returns the chroma part of v laid out by cfg.
func (v Vector) Chroma(cfg Config) []float64 {
	return v[cfg.NumMFCC : cfg.NumMFCC+cfg.NumChroma]
}

// Mel returns the mel part of v laid out by cfg.
func (v Vector) Mel(cfg Config) []float64 { return v[cfg.NumMFCC+cfg.NumChroma:] }
