// SPDX-License-Identifier: EPL-2.0

package model

import "errors"

var (
	ErrUnknownBackend = errors.New("unknown model backend")
	ErrInvalidModel   = errors.New("invalid model artifact")
	ErrInputSize      = errors.New("feature vector has the wrong length")
	ErrEmptyCommand   = errors.New("model command is empty")
	ErrBadResponse    = errors.New("malformed model response")
)
