// SPDX-License-Identifier: EPL-2.0

package features

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Slaney mel scale: linear below 1 kHz, logarithmic above.
const (
	melFSp       = 200.0 / 3
	melMinLogHz  = 1000.0
	melMinLogMel = melMinLogHz / melFSp
)

var melLogStep = math.Log(6.4) / 27.0

func hzToMel(hz float64) float64 {
	if hz >= melMinLogHz {
		return melMinLogMel + math.Log(hz/melMinLogHz)/melLogStep
	}
	return hz / melFSp
}

func melToHz(mel float64) float64 {
	if mel >= melMinLogMel {
		return melMinLogHz * math.Exp(melLogStep*(mel-melMinLogMel))
	}
	return mel * melFSp
}

// melFrequencies returns n frequencies evenly spaced on the mel scale
// between fmin and fmax inclusive.
func melFrequencies(n int, fmin, fmax float64) []float64 {
	lo, hi := hzToMel(fmin), hzToMel(fmax)
	out := make([]float64, n)
	for i := range out {
		out[i] = melToHz(lo + float64(i)*(hi-lo)/float64(n-1))
	}
	return out
}

// fftFrequencies are the centre frequencies of the non-negative FFT bins.
func fftFrequencies(sampleRate, nfft int) []float64 {
	out := make([]float64, nfft/2+1)
	for k := range out {
		out[k] = float64(k) * float64(sampleRate) / float64(nfft)
	}
	return out
}

// melFilterBank builds [numMels x nfft/2+1] triangular filters with Slaney
// area normalisation, so each filter has roughly unit area in Hz.
func melFilterBank(numMels, nfft, sampleRate int, fmin, fmax float64) *mat.Dense {
	freqs := fftFrequencies(sampleRate, nfft)
	edges := melFrequencies(numMels+2, fmin, fmax)

	bank := mat.NewDense(numMels, len(freqs), nil)
	for i := range numMels {
		left, centre, right := edges[i], edges[i+1], edges[i+2]
		enorm := 2 / (right - left)

		row := bank.RawRowView(i)
		for k, f := range freqs {
			lower := (f - left) / (centre - left)
			upper := (right - f) / (right - centre)
			row[k] = math.Max(0, math.Min(lower, upper)) * enorm
		}
	}

	return bank
}
