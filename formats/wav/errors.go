// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile          = errors.New("not a WAV file")
	ErrMissingPCMData      = errors.New("WAV file has no PCM data chunk")
	ErrUnsupportedEncoding = errors.New("unsupported WAV encoding, only integer PCM and IEEE float are supported")
	ErrUnsupportedBitDepth = errors.New("unsupported WAV bit depth")
	ErrInvalidFormat       = errors.New("invalid WAV format parameters")
)
