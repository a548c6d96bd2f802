// SPDX-License-Identifier: EPL-2.0

package features

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

const (
	pitchMinHz       = 150.0
	pitchMaxHz       = 4000.0
	peakThreshold    = 0.1
	tuningResolution = 0.01
)

// Tuning is the chroma tuning offset in fractions of a chroma bin. The
// zero value estimates it from each clip; in YAML that is "auto".
type Tuning struct {
	Fixed  bool
	Offset float64
}

func AutoTuning() Tuning { return Tuning{} }

func FixedTuning(offset float64) Tuning { return Tuning{Fixed: true, Offset: offset} }

// ParseTuning accepts "auto" (or an empty string) and decimal offsets.
func ParseTuning(s string) (Tuning, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") {
		return AutoTuning(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Tuning{}, fmt.Errorf("%w: tuning must be auto or a number (got %q)", ErrInvalidConfig, s)
	}
	return FixedTuning(v), nil
}

func (t Tuning) String() string {
	if !t.Fixed {
		return "auto"
	}
	return strconv.FormatFloat(t.Offset, 'g', -1, 64)
}

func (t *Tuning) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseTuning(node.Value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Tuning) MarshalYAML() (any, error) {
	if !t.Fixed {
		return "auto", nil
	}
	return t.Offset, nil
}

// estimateTuning picks the most common deviation, in fractions of a bin,
// of the spectral peaks in power from the equal-tempered grid on A440.
// Peaks come from parabolic interpolation around local maxima between
// 150 Hz and 4 kHz, keeping only those at or above the median magnitude.
// It returns 0 when no peak is found.
func estimateTuning(power *mat.Dense, sampleRate, binsPerOctave int) float64 {
	frames, bins := power.Dims()
	if bins < 3 {
		return 0
	}
	binHz := float64(sampleRate) / float64(2*(bins-1))
	maxHz := math.Min(pitchMaxHz, float64(sampleRate)/2)

	var pitches, mags []float64
	for t := range frames {
		row := power.RawRowView(t)
		ref := peakThreshold * floats.Max(row)
		gated := func(i int) float64 {
			if row[i] > ref {
				return row[i]
			}
			return 0
		}

		for i := 1; i < bins-1; i++ {
			if f := float64(i) * binHz; f < pitchMinHz || f >= maxHz {
				continue
			}
			if c := gated(i); c <= gated(i-1) || c < gated(i+1) {
				continue
			}

			curve := row[i+1] + row[i-1] - 2*row[i]
			slope := (row[i+1] - row[i-1]) / 2
			var shift float64
			if math.Abs(slope) < math.Abs(curve) {
				shift = -slope / curve
			}

			pitches = append(pitches, (float64(i)+shift)*binHz)
			mags = append(mags, row[i]+0.5*slope*shift)
		}
	}
	if len(pitches) == 0 {
		return 0
	}

	threshold := median(mags)
	nbins := int(math.Ceil(1 / tuningResolution))
	counts := make([]int, nbins)
	bpo := float64(binsPerOctave)
	for i, f := range pitches {
		if mags[i] < threshold {
			continue
		}
		r := math.Mod(bpo*math.Log2(f/(440.0/16)), 1)
		if r >= 0.5 {
			r--
		}
		k := int(math.Floor((r + 0.5) / tuningResolution))
		counts[min(max(k, 0), nbins-1)]++
	}

	best := 0
	for k, c := range counts {
		if c > counts[best] {
			best = k
		}
	}
	return -0.5 + float64(best)*tuningResolution
}

func median(v []float64) float64 {
	s := slices.Clone(v)
	slices.Sort(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
