// SPDX-License-Identifier: EPL-2.0

package features

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	chromaCentreOctave = 5.0
	chromaOctaveWidth  = 2.0

	// smallest normal float64
	tiny = 0x1p-1022
)

// chromaFilterBank maps FFT bins onto numChroma pitch classes starting at C.
// Each bin spreads over neighbouring classes with a Gaussian whose width
// follows the bin spacing, columns are L2-normalised, and a Gaussian over
// octaves centred on C5 de-emphasises very low and very high bins.
func chromaFilterBank(numChroma, nfft, sampleRate int, tuning float64) *mat.Dense {
	nc := float64(numChroma)
	a440 := 440 * math.Pow(2, tuning/nc)

	// Pitch of every FFT bin (full, not one-sided) in chroma bins above A0/16.
	pitch := make([]float64, nfft)
	for i := 1; i < nfft; i++ {
		f := float64(i) * float64(sampleRate) / float64(nfft)
		pitch[i] = nc * math.Log2(f/(a440/16))
	}
	pitch[0] = pitch[1] - 1.5*nc

	width := make([]float64, nfft)
	for i := range nfft - 1 {
		width[i] = math.Max(pitch[i+1]-pitch[i], 1)
	}
	width[nfft-1] = 1

	half := math.RoundToEven(nc / 2)
	wts := make([][]float64, numChroma)
	for c := range wts {
		wts[c] = make([]float64, nfft)
		for i := range nfft {
			d := math.Mod(pitch[i]-float64(c)+half+10*nc, nc)
			if d < 0 {
				d += nc
			}
			d -= half
			x := 2 * d / width[i]
			wts[c][i] = math.Exp(-0.5 * x * x)
		}
	}

	for i := range nfft {
		var sum float64
		for c := range wts {
			sum += wts[c][i] * wts[c][i]
		}
		norm := math.Sqrt(sum)
		if norm < tiny {
			norm = 1
		}

		o := (pitch[i]/nc - chromaCentreOctave) / chromaOctaveWidth
		g := math.Exp(-0.5 * o * o)
		for c := range wts {
			wts[c][i] = wts[c][i] / norm * g
		}
	}

	// Rotate so class 0 is C rather than A, and keep the one-sided bins.
	shift := 3 * (numChroma / 12)
	bins := nfft/2 + 1
	bank := mat.NewDense(numChroma, bins, nil)
	for c := range numChroma {
		copy(bank.RawRowView(c), wts[(c+shift)%numChroma][:bins])
	}

	return bank
}

// normalizeFrames scales every row of m so its largest magnitude is 1.
// Rows whose peak is below tiny are left as they are.
func normalizeFrames(m *mat.Dense) {
	rows, _ := m.Dims()
	for t := range rows {
		row := m.RawRowView(t)

		var peak float64
		for _, v := range row {
			peak = math.Max(peak, math.Abs(v))
		}
		if peak < tiny {
			continue
		}

		for i := range row {
			row[i] /= peak
		}
	}
}
