// SPDX-License-Identifier: EPL-2.0

package features

import (
	"fmt"
	"math"
)

// Config controls feature extraction. The defaults follow librosa's
// conventions for mfcc, chroma_stft and melspectrogram at 16 kHz.
type Config struct {
	SampleRate int     `yaml:"sample_rate"`
	FFTSize    int     `yaml:"n_fft"`
	HopLength  int     `yaml:"hop_length"`
	NumMels    int     `yaml:"n_mels"`
	NumMFCC    int     `yaml:"n_mfcc"`
	NumChroma  int     `yaml:"n_chroma"`
	Tuning     Tuning  `yaml:"tuning"`
	TopDB      float64 `yaml:"top_db"` // dynamic range kept before the DCT; <= 0 disables
}

func DefaultConfig() Config {
	return Config{
		SampleRate: 16000,
		FFTSize:    2048,
		HopLength:  512,
		NumMels:    128,
		NumMFCC:    40,
		NumChroma:  12,
		Tuning:     AutoTuning(),
		TopDB:      80,
	}
}

// Len is the length of the vector Extract produces.
func (c Config) Len() int {
	return c.NumMFCC + c.NumChroma + c.NumMels
}

// Frames is the number of STFT frames for n samples with centred framing.
func (c Config) Frames(n int) int {
	return 1 + n/c.HopLength
}

func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample_rate must be positive (got %d)", ErrInvalidConfig, c.SampleRate)
	case c.FFTSize < 2 || c.FFTSize%2 != 0:
		return fmt.Errorf("%w: n_fft must be even and >= 2 (got %d)", ErrInvalidConfig, c.FFTSize)
	case c.HopLength <= 0:
		return fmt.Errorf("%w: hop_length must be positive (got %d)", ErrInvalidConfig, c.HopLength)
	case c.NumMels <= 0:
		return fmt.Errorf("%w: n_mels must be positive (got %d)", ErrInvalidConfig, c.NumMels)
	case c.NumMFCC <= 0 || c.NumMFCC > c.NumMels:
		return fmt.Errorf("%w: n_mfcc must be in [1, n_mels] (got %d)", ErrInvalidConfig, c.NumMFCC)
	case c.NumChroma <= 0:
		return fmt.Errorf("%w: n_chroma must be positive (got %d)", ErrInvalidConfig, c.NumChroma)
	case c.Tuning.Fixed && (math.IsNaN(c.Tuning.Offset) || math.IsInf(c.Tuning.Offset, 0)):
		return fmt.Errorf("%w: tuning must be finite (got %v)", ErrInvalidConfig, c.Tuning.Offset)
	}
	return nil
}
