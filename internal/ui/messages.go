// SPDX-License-Identifier: EPL-2.0

package ui

import "time"

// TickMsg refreshes the elapsed time.
type TickMsg time.Time

// FullMsg reports that the recording cap was reached.
type FullMsg struct{}
