// SPDX-License-Identifier: EPL-2.0

// Package sample holds the scalar PCM helpers shared by decoders, writers
// and the resampler.
package sample

// ToInt16 converts a float sample in [-1, 1] to 16-bit PCM, clamping
// anything outside the range.
func ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 keeps +1.0 from overflowing
	return int16(x * 32767.0)
}

// FromInt converts a signed integer PCM value of the given bit depth to a
// float sample. 8-bit PCM is unsigned and centred on 128.
func FromInt(v int, bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return float32(v-128) / 128.0
	case 24:
		return float32(v) / 8388608.0
	case 32:
		return float32(float64(v) / 2147483648.0)
	default:
		return float32(v) / 32768.0
	}
}

// Cubic evaluates a Catmull-Rom spline through y0..y3 at fractional
// position x between y1 (x=0) and y2 (x=1).
func Cubic(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return ((a0*x+a1)*x+a2)*x + a3
}
