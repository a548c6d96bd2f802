// SPDX-License-Identifier: EPL-2.0

package features

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// hannWindow returns the periodic Hann window of length n, the form used
// for spectral analysis.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

// powerSpectrogram computes |STFT|^2 as a [frames x nfft/2+1] matrix.
// Frames are centred: the signal is padded with nfft/2 zeros on each side,
// so frame t is centred on sample t*hop.
func powerSpectrogram(y []float64, window []float64, hop int) *mat.Dense {
	nfft := len(window)
	pad := nfft / 2
	frames := 1 + len(y)/hop
	bins := nfft/2 + 1

	fft := fourier.NewFFT(nfft)
	frame := make([]float64, nfft)
	coeff := make([]complex128, bins)

	spec := mat.NewDense(frames, bins, nil)
	for t := range frames {
		start := t*hop - pad
		for i := range frame {
			j := start + i
			if j < 0 || j >= len(y) {
				frame[i] = 0
				continue
			}
			frame[i] = y[j] * window[i]
		}

		fft.Coefficients(coeff, frame)

		row := spec.RawRowView(t)
		for k, c := range coeff {
			re, im := real(c), imag(c)
			row[k] = re*re + im*im
		}
	}

	return spec
}

// columnMeans averages m over its rows.
func columnMeans(m *mat.Dense) []float64 {
	rows, cols := m.Dims()
	out := make([]float64, cols)
	for t := range rows {
		for j, v := range m.RawRowView(t) {
			out[j] += v
		}
	}
	for j := range out {
		out[j] /= float64(rows)
	}
	return out
}
