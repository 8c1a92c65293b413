// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package healthuc_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikisvc/wikiweb/internal/test/memrepo"
	"github.com/wikisvc/wikiweb/pkg/core/cerr"
	"github.com/wikisvc/wikiweb/pkg/core/repo"
	"github.com/wikisvc/wikiweb/pkg/core/txn"
	"github.com/wikisvc/wikiweb/pkg/core/usecase/healthuc"
)

func TestCheck(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	pool := memrepo.NewPool(
		memrepo.NewStore(), 1, 20*time.Millisecond,
	)
	health := healthuc.New(txn.New(pool, nil))

	r.NoError(health.Check(ctx), "a free pool must be healthy")

	acquired := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- pool.Conn(
			ctx, func(ctx context.Context, c repo.Conn) error {
				close(acquired)
				<-release
				return nil
			},
		)
	}()
	<-acquired
	err := health.Check(ctx)
	r.Error(err, "a saturated pool must be reported")
	assert.True(
		t, cerr.IsKind(err, http.StatusServiceUnavailable),
		"saturation must keep its resource exhaustion kind",
	)

	close(release)
	r.NoError(<-done, "the slot holder must finish cleanly")
	r.NoError(health.Check(ctx), "a freed pool must recover")
}
