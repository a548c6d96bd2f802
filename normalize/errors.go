// SPDX-License-Identifier: EPL-2.0

package normalize

import "errors"

var (
	// ErrConversion marks any failure to turn an upload into a WAV file.
	ErrConversion = errors.New("file conversion failed")

	errNoAudio = errors.New("decoded stream is empty")
)
