// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package healthuc contains the health UseCase which reports whether
// the service can still reach its database.
package healthuc

import (
	"context"
	"fmt"

	"github.com/wikisvc/wikiweb/pkg/core/repo"
	"github.com/wikisvc/wikiweb/pkg/core/txn"
)

// UseCase represents the health use case. It holds a transaction
// coordinator for probing the database through a pooled connection.
type UseCase struct {
	co *txn.Coordinator
}

// New instantiates a health use case.
func New(co *txn.Coordinator) *UseCase {
	return &UseCase{co: co}
}

// Check acquires a connection and runs a trivial query on it, proving
// that the pool has a free slot and the database answers. A saturated
// pool surfaces as a cerr.ResourceExhausted error, hence, the health
// endpoint degrades together with the serving endpoints instead of
// reporting a healthy state which requests cannot experience.
func (health *UseCase) Check(ctx context.Context) error {
	err := health.co.View(ctx, func(ctx context.Context, c repo.Conn) error {
		rows, err := c.Query(ctx, "SELECT 1")
		if err != nil {
			return fmt.Errorf("probing query: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("probing rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("database is not reachable: %w", err)
	}
	return nil
}
