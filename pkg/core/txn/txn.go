// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package txn provides the Coordinator which wraps a database
// connection pool and standardizes how use cases run their queries.
// Mutating use cases go through the Run method which acquires a
// connection, opens a transaction, runs the given operation, and
// commits or rolls back depending on its outcome. Read-only use cases
// go through the View method which runs the operation on an acquired
// connection directly with the auto-committed transactions.
//
// Run optionally takes a counter name, so the caller does not have to
// find out whether the commit succeeded before counting an event.
// The counter is incremented after a successful commit and never
// otherwise, hence, counters reflect the committed state changes
// despite any rolled back or failed attempts in between.
package txn

import (
	"context"
	"log/slog"

	"github.com/wikisvc/wikiweb/pkg/core/log"
	"github.com/wikisvc/wikiweb/pkg/core/metric"
	"github.com/wikisvc/wikiweb/pkg/core/repo"
)

// Coordinator wraps a connection pool and a metrics sink in order to
// run the use cases operations with uniform transaction and counting
// semantics. The zero value is not usable; instances must be created
// by the New function. A single Coordinator instance is safe for
// concurrent use by multiple goroutines.
type Coordinator struct {
	pool repo.Pool
	sink metric.Sink
}

// New instantiates a Coordinator using the p connection pool and the
// s metrics sink. A nil sink is replaced by metric.Nop, so callers
// which do not care about the counters may pass nil safely.
func New(p repo.Pool, s metric.Sink) *Coordinator {
	if s == nil {
		s = metric.Nop{}
	}
	return &Coordinator{pool: p, sink: s}
}

// Run acquires a connection from the pool, opens a transaction on it,
// and runs the op operation in its scope. When op returns nil, the
// transaction will be committed and when it returns an error or
// panics, the transaction will be rolled back. In all cases, the
// connection is released to the pool again before Run returns.
//
// The counter which is named by the counterName argument (or no
// counter if it is empty) is incremented if and only if the commit
// completes successfully. A sink misbehavior cannot overturn the
// committed operation, that is, Run still returns nil.
//
// Run reports the handler, commit, or acquisition error, so a caller
// can distinguish a cerr.ResourceExhausted pool saturation from the
// op outcome by the errors.As examination.
func (co *Coordinator) Run(
	ctx context.Context,
	counterName string,
	op func(ctx context.Context, tx repo.Tx) error,
) error {
	err := co.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, op)
	})
	if err != nil {
		return err
	}
	if counterName != "" {
		co.increment(ctx, counterName)
	}
	return nil
}

// View acquires a connection from the pool and runs the op operation
// on it directly, without an explicit transaction. Each statement
// commits independently in this mode, so a failing statement (e.g.,
// a lookup for a missing row) cannot undo the statements before it.
// The connection is released to the pool again before View returns.
func (co *Coordinator) View(
	ctx context.Context,
	op func(ctx context.Context, c repo.Conn) error,
) error {
	return co.pool.Conn(ctx, op)
}

// increment counts one event, keeping a panicking sink from
// propagating into the Run caller since the transaction is already
// committed at this point.
func (co *Coordinator) increment(ctx context.Context, name string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn(
				ctx, "metrics sink panicked",
				slog.String("counter", name), slog.Any("reason", r),
			)
		}
	}()
	co.sink.Increment(name)
}
