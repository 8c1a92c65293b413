// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikisvc/wikiweb/internal/test/dbcontainer"
	"github.com/wikisvc/wikiweb/pkg/adapter/db/postgres"
	"github.com/wikisvc/wikiweb/pkg/core/cerr"
	"github.com/wikisvc/wikiweb/pkg/core/repo"
)

type AdapterTestSuite struct {
	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
}

func TestPostgresAdapter(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	ats := &AdapterTestSuite{Ctx: ctx, Pg: pg, Pool: pool}
	t.Run("connection lifecycle", ats.TestConnLifecycle)
	t.Run("transaction outcomes", ats.TestTxOutcomes)
	t.Run("transaction isolation", ats.TestTxIsolation)
	t.Run("pool saturation", ats.TestPoolSaturation)
}

// countRows acquires a fresh connection and counts the rows of the
// given table with it, so it observes the committed contents only.
func (ats *AdapterTestSuite) countRows(
	t *testing.T, table string,
) (n int64) {
	err := ats.Pool.Conn(
		ats.Ctx, func(ctx context.Context, c repo.Conn) error {
			rows, err := c.Query(ctx, `SELECT COUNT(*) FROM `+table)
			if err != nil {
				return err
			}
			defer rows.Close()
			require.True(t, rows.Next(), "a count must be reported")
			require.NoError(t, rows.Scan(&n), "scanning rows count")
			return rows.Err()
		},
	)
	require.NoError(t, err, "counting %q rows", table)
	return n
}

func (ats *AdapterTestSuite) TestConnLifecycle(t *testing.T) {
	r := require.New(t)
	err := ats.Pool.Conn(
		ats.Ctx, func(ctx context.Context, c repo.Conn) error {
			count, err := c.Exec(ctx, `CREATE TABLE lifecycle_probe (
	n INT NOT NULL,
	s TEXT NOT NULL
);
INSERT INTO lifecycle_probe (n, s) VALUES (1, 'a'), (2, 'b')`)
			r.NoError(err, "multi-statement exec without args")
			r.EqualValues(2, count, "insert must report affected rows")

			rows, err := c.Query(
				ctx, `SELECT n, s FROM lifecycle_probe
WHERE n >= $1 ORDER BY n`, 2,
			)
			r.NoError(err, "querying with a numbered parameter")
			defer rows.Close()
			r.True(rows.Next(), "one row must match")
			vals, err := rows.Values()
			r.NoError(err, "reading row values")
			r.Len(vals, 2, "one value per selected column")
			r.False(rows.Next(), "no further row may match")
			return rows.Err()
		},
	)
	r.NoError(err, "running the lifecycle handler")

	opErr := cerr.NotFound(nil)
	err = ats.Pool.Conn(
		ats.Ctx, func(ctx context.Context, c repo.Conn) error {
			return opErr
		},
	)
	r.ErrorIs(err, opErr, "handler errors must pass through")

	r.Panics(func() {
		_ = ats.Pool.Conn(
			ats.Ctx, func(ctx context.Context, c repo.Conn) error {
				panic("handler exploded")
			},
		)
	}, "a handler panic unwinds through Conn")
	err = ats.Pool.Conn(ats.Ctx, postgres.NoOpConnHandler)
	r.NoError(err, "the slot must be released after a panic")
}

func (ats *AdapterTestSuite) TestTxOutcomes(t *testing.T) {
	r := require.New(t)
	err := ats.Pool.Conn(
		ats.Ctx, func(ctx context.Context, c repo.Conn) error {
			_, err := c.Exec(ctx, `CREATE TABLE outcome_probe (n INT)`)
			return err
		},
	)
	r.NoError(err, "creating the probe table")

	err = ats.Pool.Conn(
		ats.Ctx, func(ctx context.Context, c repo.Conn) error {
			return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
				_, err := tx.Exec(
					ctx, `INSERT INTO outcome_probe (n) VALUES (1)`,
				)
				return err
			})
		},
	)
	r.NoError(err, "committing a transaction")
	r.EqualValues(1, ats.countRows(t, "outcome_probe"))

	opErr := cerr.BadRequest(nil)
	err = ats.Pool.Conn(
		ats.Ctx, func(ctx context.Context, c repo.Conn) error {
			return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
				if _, err := tx.Exec(
					ctx, `INSERT INTO outcome_probe (n) VALUES (2)`,
				); err != nil {
					return err
				}
				return opErr
			})
		},
	)
	r.ErrorIs(err, opErr, "handler error must be reported")
	r.EqualValues(
		1, ats.countRows(t, "outcome_probe"),
		"a failed handler must roll its insert back",
	)

	err = ats.Pool.Conn(
		ats.Ctx, func(ctx context.Context, c repo.Conn) error {
			return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
				if _, err := tx.Exec(
					ctx, `INSERT INTO outcome_probe (n) VALUES (3)`,
				); err != nil {
					return err
				}
				panic("tx handler exploded")
			})
		},
	)
	r.Error(err, "a panicking handler must surface as an error")
	r.ErrorContains(err, "panicked")
	r.EqualValues(
		1, ats.countRows(t, "outcome_probe"),
		"a panicking handler must roll its insert back",
	)
}

func (ats *AdapterTestSuite) TestTxIsolation(t *testing.T) {
	r := require.New(t)
	err := ats.Pool.Conn(
		ats.Ctx, func(ctx context.Context, c repo.Conn) error {
			_, err := c.Exec(ctx, `CREATE TABLE iso_probe (n INT)`)
			return err
		},
	)
	r.NoError(err, "creating the probe table")

	inserted := make(chan struct{})
	finish := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- ats.Pool.Conn(
			ats.Ctx, func(ctx context.Context, c repo.Conn) error {
				return c.Tx(
					ctx, func(ctx context.Context, tx repo.Tx) error {
						_, err := tx.Exec(
							ctx, `INSERT INTO iso_probe (n) VALUES (1)`,
						)
						if err != nil {
							return err
						}
						close(inserted)
						<-finish
						return nil
					},
				)
			},
		)
	}()
	<-inserted
	r.Zero(
		ats.countRows(t, "iso_probe"),
		"an uncommitted insert must stay invisible to other sessions",
	)
	close(finish)
	r.NoError(<-done, "committing the held transaction")
	r.EqualValues(
		1, ats.countRows(t, "iso_probe"),
		"the committed insert must become visible",
	)
}

func (ats *AdapterTestSuite) TestPoolSaturation(t *testing.T) {
	r := require.New(t)
	pool, err := postgres.NewPool(
		ats.Ctx, ats.Pg.ConnectionString(),
		postgres.WithMaxConns(1),
		postgres.WithAcquireTimeout(200*time.Millisecond),
	)
	r.NoError(err, "creating a single-slot pool")
	defer func() {
		assert.NoError(t, pool.Close(), "closing the single-slot pool")
	}()

	acquired := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- pool.Conn(
			ats.Ctx, func(ctx context.Context, c repo.Conn) error {
				close(acquired)
				<-release
				return nil
			},
		)
	}()
	<-acquired
	ran := false
	err = pool.Conn(
		ats.Ctx, func(ctx context.Context, c repo.Conn) error {
			ran = true
			return nil
		},
	)
	r.Error(err, "a saturated pool must report the waiting bound")
	r.True(
		cerr.IsKind(err, http.StatusServiceUnavailable),
		"saturation must carry the resource exhaustion kind",
	)
	r.False(ran, "the handler may not run without a free slot")

	close(release)
	r.NoError(<-done, "the slot holder must finish cleanly")
	err = pool.Conn(ats.Ctx, postgres.NoOpConnHandler)
	r.NoError(err, "the pool must recover once the slot frees up")
}
