// SPDX-License-Identifier: EPL-2.0

package classify

import "errors"

var (
	// ErrInference marks a scorer failure or an unusable score vector.
	ErrInference = errors.New("prediction failed")

	// ErrDimensionMismatch is a startup error: a scorer does not accept
	// vectors of the extractor's length.
	ErrDimensionMismatch = errors.New("scorer input size does not match feature length")

	ErrNilScorer = errors.New("scorer is nil")
)
