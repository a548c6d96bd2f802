// SPDX-License-Identifier: EPL-2.0

package features

import (
	"errors"
	"fmt"
)

var (
	// ErrExtraction marks any failure to load audio or compute features.
	ErrExtraction = errors.New("feature extraction failed")

	// ErrEmptyWaveform is returned for audio with no samples.
	ErrEmptyWaveform = fmt.Errorf("%w: waveform has no samples", ErrExtraction)

	ErrInvalidConfig = errors.New("invalid feature config")
)
