// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// ConnHandler is a callback which runs against a connection that is
// temporarily acquired from a Pool. The connection is only valid for
// the duration of the call and may not be retained afterwards.
type ConnHandler func(context.Context, Conn) error

// Pool represents a bounded set of reusable database connections.
//
// Conn acquires one free connection slot, creates a Conn bound to it,
// runs the handler, and releases the slot when the handler returns.
// The release happens on every exit path, including a panicking
// handler, so a slot can never leak. No two concurrently running
// handlers observe the same slot.
//
// Acquisition suspends the caller while all slots are busy. The wait
// is bounded by the implementation's configured acquire timeout; when
// it elapses before a slot frees up, Conn fails with an error which
// is marked as cerr.ResourceExhausted and the handler never runs.
// Callers must surface that condition instead of retrying silently.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
}
