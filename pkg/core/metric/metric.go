// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package metric exports the counters abstraction which the use cases
// layer increments after successful transactions. Counter names form
// a fixed, pre-declared set; the adapter layer decides how increments
// are realized (e.g., Prometheus counters) and the tests substitute a
// recording fake. Keeping the sink injected instead of hiding it as a
// process global is what allows the commit-gating behavior to be
// asserted in tests.
package metric

// Counter names tracked by the service. A sink implementation must
// pre-declare exactly these names; incrementing an unknown name is
// ignored (and may be logged) instead of failing.
const (
	UsersCreated = "users_created_total"
	PostsCreated = "posts_created_total"
)

// Names returns the full set of known counter names. Adapters use it
// to pre-register their counters, so the set is declared once here.
func Names() []string {
	return []string{UsersCreated, PostsCreated}
}

// Sink counts occurrences of pre-declared event types. Implementations
// must be safe for concurrent use, must not block, and must not fail:
// a metrics fault may never break the business operation which
// triggered it. For that reason Increment returns nothing.
type Sink interface {
	Increment(name string)
}

// Nop is a Sink which drops all increments. It stands in wherever
// metrics are not configured.
type Nop struct{}

// Increment implements Sink by doing nothing.
func (Nop) Increment(string) {}
