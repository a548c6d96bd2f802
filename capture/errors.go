// SPDX-License-Identifier: EPL-2.0

package capture

import "errors"

var (
	ErrAlreadyStarted = errors.New("recording already started")
	ErrNotRecording   = errors.New("no recording in progress")
	ErrNilStream      = errors.New("stream is nil")
)
