// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres adapts a PostgreSQL database to the pkg/core/repo
// session contracts. The Pool hands out dedicated connections with a
// bounded acquisition wait, the Conn runs statements in autocommit
// mode and may open one transaction at a time, and the Tx commits or
// rolls back exactly once based on its handler outcome.
//
// Statements go through the GORM framework over the pgx stdlib
// driver. Repository packages receive a *Conn or *Tx instance and may
// use the GORM method in order to run framework-level queries on the
// same underlying session.
package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wikisvc/wikiweb/pkg/core/cerr"
)

// ClassifyError marks those database errors which report an integrity
// constraint violation (SQLSTATE class 23, e.g., a failed CHECK, a
// dangling foreign key, or a duplicated unique value) as
// cerr.BadRequest errors, since they are caused by the statement
// contents rather than the system state. Other errors, including a
// nil one, are returned unchanged.
func ClassifyError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return cerr.BadRequest(err)
	}
	return err
}
