// SPDX-License-Identifier: EPL-2.0

package features

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const dbFloor = 1e-10

// powerToDB converts a power spectrogram to decibels in place, relative to
// a reference power of 1. With topDB > 0 everything more than topDB below
// the global peak is raised to that floor.
func powerToDB(m *mat.Dense, topDB float64) {
	peak := math.Inf(-1)
	m.Apply(func(_, _ int, v float64) float64 {
		db := 10 * math.Log10(math.Max(v, dbFloor))
		peak = math.Max(peak, db)
		return db
	}, m)

	if topDB <= 0 {
		return
	}

	floor := peak - topDB
	m.Apply(func(_, _ int, v float64) float64 {
		return math.Max(v, floor)
	}, m)
}

// dctBasis returns the first numCoeffs rows of the orthonormal DCT-II
// matrix of size n.
func dctBasis(numCoeffs, n int) *mat.Dense {
	basis := mat.NewDense(numCoeffs, n, nil)
	for k := range numCoeffs {
		scale := math.Sqrt(2 / float64(n))
		if k == 0 {
			scale = math.Sqrt(1 / float64(n))
		}

		row := basis.RawRowView(k)
		for i := range row {
			row[i] = scale * math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*float64(n)))
		}
	}
	return basis
}
