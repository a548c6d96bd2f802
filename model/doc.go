// SPDX-License-Identifier: EPL-2.0

// Package model provides classify.Scorer backends.
//
// The dense backend evaluates a small feed-forward network in process from
// a msgpack artifact (see Artifact). The exec backend hands each vector to
// an external command as JSON, which lets models trained and served in
// another runtime be used unchanged.
package model
