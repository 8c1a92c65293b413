// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package txn_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wikisvc/wikiweb/pkg/core/cerr"
	"github.com/wikisvc/wikiweb/pkg/core/metric"
	"github.com/wikisvc/wikiweb/pkg/core/repo"
	"github.com/wikisvc/wikiweb/pkg/core/txn"
)

type fakeQueryer struct{}

func (fakeQueryer) Exec(
	ctx context.Context, sql string, args ...any,
) (int64, error) {
	return 0, nil
}

func (fakeQueryer) Query(
	ctx context.Context, sql string, args ...any,
) (repo.Rows, error) {
	return nil, errors.New("fake queryer keeps no rows")
}

type fakeTx struct {
	fakeQueryer
}

func (fakeTx) IsTx() {}

// fakeConn mimics the terminal action bookkeeping of a real
// connection, that is, a failing or panicking handler rolls the
// transaction back and only a clean handler return may commit.
type fakeConn struct {
	fakeQueryer
	commitErr error

	commits   int
	rollbacks int
}

func (c *fakeConn) IsConn() {}

func (c *fakeConn) Tx(
	ctx context.Context, handler repo.TxHandler,
) error {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("handler panicked: %v", r)
			}
		}()
		return handler(ctx, fakeTx{})
	}()
	if err != nil {
		c.rollbacks++
		return err
	}
	if c.commitErr != nil {
		c.rollbacks++
		return fmt.Errorf("committing: %w", c.commitErr)
	}
	c.commits++
	return nil
}

type fakePool struct {
	conn       fakeConn
	acquireErr error

	releases int
}

func (p *fakePool) Conn(
	ctx context.Context, handler repo.ConnHandler,
) error {
	if p.acquireErr != nil {
		return p.acquireErr
	}
	defer func() {
		p.releases++
	}()
	return handler(ctx, &p.conn)
}

type fakeSink struct {
	counts  map[string]int
	panicky bool
}

func (s *fakeSink) Increment(name string) {
	if s.panicky {
		panic("sink is out of service")
	}
	if s.counts == nil {
		s.counts = make(map[string]int)
	}
	s.counts[name]++
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("successful commit increments the counter", func(t *testing.T) {
		r := require.New(t)
		pool := &fakePool{}
		sink := &fakeSink{}
		co := txn.New(pool, sink)
		err := co.Run(
			ctx, metric.UsersCreated,
			func(ctx context.Context, tx repo.Tx) error {
				return nil
			},
		)
		r.NoError(err, "running a trivial operation")
		r.Equal(1, pool.conn.commits, "exactly one commit")
		r.Zero(pool.conn.rollbacks, "no rollback on success")
		r.Equal(1, pool.releases, "connection must be released")
		r.Equal(
			map[string]int{metric.UsersCreated: 1}, sink.counts,
			"one event for one commit",
		)
	})

	t.Run("handler error causes a rollback", func(t *testing.T) {
		r := require.New(t)
		pool := &fakePool{}
		sink := &fakeSink{}
		co := txn.New(pool, sink)
		opErr := errors.New("op rejected")
		err := co.Run(
			ctx, metric.UsersCreated,
			func(ctx context.Context, tx repo.Tx) error {
				return opErr
			},
		)
		r.ErrorIs(err, opErr, "operation error must be reported")
		r.Zero(pool.conn.commits, "no commit after a failed handler")
		r.Equal(1, pool.conn.rollbacks, "exactly one rollback")
		r.Equal(1, pool.releases, "connection must be released")
		r.Empty(sink.counts, "no event without a commit")
	})

	t.Run("handler panic causes a rollback", func(t *testing.T) {
		r := require.New(t)
		pool := &fakePool{}
		sink := &fakeSink{}
		co := txn.New(pool, sink)
		err := co.Run(
			ctx, metric.UsersCreated,
			func(ctx context.Context, tx repo.Tx) error {
				panic("op exploded")
			},
		)
		r.Error(err, "panic must surface as an error")
		r.Contains(err.Error(), "panicked")
		r.Zero(pool.conn.commits, "no commit after a panic")
		r.Equal(1, pool.conn.rollbacks, "exactly one rollback")
		r.Equal(1, pool.releases, "connection must be released")
		r.Empty(sink.counts, "no event without a commit")
	})

	t.Run("commit failure skips the counter", func(t *testing.T) {
		r := require.New(t)
		commitErr := errors.New("serialization failure")
		pool := &fakePool{conn: fakeConn{commitErr: commitErr}}
		sink := &fakeSink{}
		co := txn.New(pool, sink)
		err := co.Run(
			ctx, metric.PostsCreated,
			func(ctx context.Context, tx repo.Tx) error {
				return nil
			},
		)
		r.ErrorIs(err, commitErr, "commit error must be reported")
		r.Empty(sink.counts, "no event for a failed commit")
	})

	t.Run("saturated pool never runs the handler", func(t *testing.T) {
		r := require.New(t)
		pool := &fakePool{
			acquireErr: cerr.ResourceExhausted(
				errors.New("db pool: 10ms acquire timeout"),
			),
		}
		sink := &fakeSink{}
		co := txn.New(pool, sink)
		ran := false
		err := co.Run(
			ctx, metric.UsersCreated,
			func(ctx context.Context, tx repo.Tx) error {
				ran = true
				return nil
			},
		)
		r.Error(err, "acquisition error must be reported")
		r.True(
			cerr.IsKind(err, http.StatusServiceUnavailable),
			"pool saturation must keep its 503 kind",
		)
		r.False(ran, "handler must not run without a connection")
		r.Empty(sink.counts, "no event without a commit")
	})

	t.Run("empty counter name counts nothing", func(t *testing.T) {
		r := require.New(t)
		pool := &fakePool{}
		sink := &fakeSink{}
		co := txn.New(pool, sink)
		err := co.Run(
			ctx, "",
			func(ctx context.Context, tx repo.Tx) error {
				return nil
			},
		)
		r.NoError(err, "running a trivial operation")
		r.Equal(1, pool.conn.commits, "exactly one commit")
		r.Empty(sink.counts, "no counter was named")
	})

	t.Run("panicking sink cannot fail the run", func(t *testing.T) {
		r := require.New(t)
		pool := &fakePool{}
		sink := &fakeSink{panicky: true}
		co := txn.New(pool, sink)
		err := co.Run(
			ctx, metric.UsersCreated,
			func(ctx context.Context, tx repo.Tx) error {
				return nil
			},
		)
		r.NoError(err, "commit already succeeded")
		r.Equal(1, pool.conn.commits, "exactly one commit")
	})

	t.Run("nil sink is usable", func(t *testing.T) {
		r := require.New(t)
		pool := &fakePool{}
		co := txn.New(pool, nil)
		err := co.Run(
			ctx, metric.UsersCreated,
			func(ctx context.Context, tx repo.Tx) error {
				return nil
			},
		)
		r.NoError(err, "running with a nil sink")
	})
}

func TestView(t *testing.T) {
	ctx := context.Background()

	t.Run("runs on the bare connection", func(t *testing.T) {
		r := require.New(t)
		pool := &fakePool{}
		co := txn.New(pool, &fakeSink{})
		err := co.View(
			ctx, func(ctx context.Context, c repo.Conn) error {
				r.Same(&pool.conn, c, "acquired connection is passed")
				return nil
			},
		)
		r.NoError(err, "viewing with a trivial operation")
		r.Zero(pool.conn.commits, "no explicit transaction")
		r.Zero(pool.conn.rollbacks, "no explicit transaction")
		r.Equal(1, pool.releases, "connection must be released")
	})

	t.Run("operation error passes through", func(t *testing.T) {
		r := require.New(t)
		pool := &fakePool{}
		co := txn.New(pool, &fakeSink{})
		opErr := cerr.NotFound(errors.New("user 42 not found"))
		err := co.View(
			ctx, func(ctx context.Context, c repo.Conn) error {
				return opErr
			},
		)
		r.ErrorIs(err, opErr, "operation error must be reported")
		r.True(
			cerr.IsKind(err, http.StatusNotFound),
			"error kind must be preserved",
		)
		r.Equal(1, pool.releases, "connection must be released")
	})
}
