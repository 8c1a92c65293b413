// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schema is an internal helper for the test packages. It
// verifies that a database initialization has settled the users and
// posts tables with their expected columns and constraints, and that
// the development or production suitable initial contents are in
// place. Only presence of the expected rows and not the absence of
// extra rows will be checked, so extra test-created rows cannot fail
// an unrelated verification.
package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikisvc/wikiweb/pkg/core/repo"
)

// Verifier wraps a database connection and verifies the settled
// schema and its contents using that connection. Statements run in
// the autocommit mode, as all of them are read-only lookups.
type Verifier struct {
	c repo.Conn // database connection which is used for testing
}

// New instantiates a Verifier struct, wrapping the `c` database
// connection. Since Verifier fields are not exported, the New function
// is required for its initialization.
func New(c repo.Conn) *Verifier {
	return &Verifier{c}
}

// VerifySchema checks that the users and posts tables exist in the
// public schema with their expected columns and that the posts table
// declares a foreign key (pointing to the users table author rows).
// Failures are reported using the `t` testing argument.
func (v *Verifier) VerifySchema(ctx context.Context, t *testing.T) {
	for table, expected := range map[string][]string{
		"users": {"email", "id", "username"},
		"posts": {"author_id", "content", "id", "title"},
	} {
		cols := v.columnNames(ctx, t, table)
		assert.Equal(t, expected, cols, "columns of %q table", table)
	}
	n := v.countRows(ctx, t, `SELECT COUNT(*)
FROM information_schema.table_constraints
WHERE table_schema = 'public' AND table_name = 'posts'
	AND constraint_type = 'FOREIGN KEY'`)
	assert.EqualValues(t, 1, n, "posts table foreign keys")
}

// VerifyDevData checks for presence of the development suitable
// initial rows and marks possible issues using the `t` testing
// argument. Presence of extra rows is acceptable.
func (v *Verifier) VerifyDevData(ctx context.Context, t *testing.T) {
	n := v.countRows(ctx, t, `SELECT COUNT(*) FROM users
WHERE (username, email) IN (
	('alice', 'alice@example.com'), ('bob', 'bob@example.com')
)`)
	assert.EqualValues(t, 2, n, "development users rows")
	n = v.countRows(ctx, t, `SELECT COUNT(*) FROM posts
WHERE title IN ('Welcome', 'Editing basics')`)
	assert.EqualValues(t, 2, n, "development posts rows")
}

// VerifyProdData checks that the users and posts tables are empty as
// expected right after a production suitable initialization, marking
// possible issues using the `t` testing argument.
func (v *Verifier) VerifyProdData(ctx context.Context, t *testing.T) {
	n := v.countRows(ctx, t, `SELECT COUNT(*) FROM users`)
	assert.EqualValues(t, 0, n, "production users rows")
	n = v.countRows(ctx, t, `SELECT COUNT(*) FROM posts`)
	assert.EqualValues(t, 0, n, "production posts rows")
}

func (v *Verifier) columnNames(
	ctx context.Context, t *testing.T, table string,
) []string {
	rows, err := v.c.Query(ctx, `SELECT column_name
FROM information_schema.columns
WHERE table_schema = 'public' AND table_name = $1
ORDER BY column_name`, table)
	require.NoError(t, err, "querying %q table columns", table)
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name), "scanning column name")
		cols = append(cols, name)
	}
	require.NoError(t, rows.Err(), "iterating %q table columns", table)
	return cols
}

func (v *Verifier) countRows(
	ctx context.Context, t *testing.T, query string,
) (n int64) {
	rows, err := v.c.Query(ctx, query)
	require.NoError(t, err, "querying rows count")
	defer rows.Close()
	require.True(t, rows.Next(), "a count must be reported")
	require.NoError(t, rows.Scan(&n), "scanning rows count")
	require.NoError(t, rows.Err(), "iterating rows count")
	return n
}
