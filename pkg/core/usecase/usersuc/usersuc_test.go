// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersuc_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikisvc/wikiweb/internal/test/memrepo"
	"github.com/wikisvc/wikiweb/pkg/core/cerr"
	"github.com/wikisvc/wikiweb/pkg/core/metric"
	"github.com/wikisvc/wikiweb/pkg/core/model"
	"github.com/wikisvc/wikiweb/pkg/core/txn"
	"github.com/wikisvc/wikiweb/pkg/core/usecase/usersuc"
)

type countingSink struct {
	mu     sync.Mutex
	counts map[string]int
}

func (s *countingSink) Increment(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts == nil {
		s.counts = make(map[string]int)
	}
	s.counts[name]++
}

func (s *countingSink) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[name]
}

func newUseCase(
	t *testing.T, opts ...usersuc.Option,
) (*usersuc.UseCase, *memrepo.Store, *countingSink) {
	store := memrepo.NewStore()
	pool := memrepo.NewPool(store, 4, time.Second)
	sink := &countingSink{}
	uc, err := usersuc.New(txn.New(pool, sink), memrepo.Users{}, opts...)
	require.NoError(t, err, "instantiating users use case")
	return uc, store, sink
}

func TestNew(t *testing.T) {
	t.Parallel()
	co := txn.New(
		memrepo.NewPool(memrepo.NewStore(), 1, time.Second), nil,
	)

	_, err := usersuc.New(co, memrepo.Users{})
	assert.NoError(t, err, "defaults must be usable")

	_, err = usersuc.New(co, memrepo.Users{}, usersuc.WithMaxPageSize(0))
	assert.Error(t, err, "non-positive max page size")

	_, err = usersuc.New(
		co, memrepo.Users{},
		usersuc.WithDefaultPageSize(7), usersuc.WithDefaultPageSize(8),
	)
	assert.Error(t, err, "repeated options must be rejected")

	_, err = usersuc.New(
		co, memrepo.Users{},
		usersuc.WithDefaultPageSize(50), usersuc.WithMaxPageSize(20),
	)
	assert.Error(t, err, "default beyond the max page size")
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, store, sink := newUseCase(t)

	u, err := uc.Create(ctx, "alice", "alice@example.com")
	r.NoError(err, "creating the first user")
	r.EqualValues(1, u.ID, "identifiers start at one")
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, 1, sink.count(metric.UsersCreated))

	got, err := uc.GetByID(ctx, u.ID)
	r.NoError(err, "fetching the created user")
	assert.Equal(t, u, got, "fetched user must echo the created one")

	u2, err := uc.Create(ctx, "bob", "bob@example.com")
	r.NoError(err, "creating the second user")
	r.EqualValues(2, u2.ID, "identifiers are serial")
	assert.Equal(t, 2, sink.count(metric.UsersCreated))
	assert.Len(t, store.Users(), 2)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, store, sink := newUseCase(t)

	_, err := uc.Create(ctx, "", "alice@example.com")
	r.Error(err, "empty username must be rejected")
	assert.True(t, cerr.IsKind(err, http.StatusBadRequest))

	_, err = uc.Create(ctx, "alice", "")
	r.Error(err, "empty email must be rejected")
	assert.True(t, cerr.IsKind(err, http.StatusBadRequest))

	assert.Empty(t, store.Users(), "no row for a rejected creation")
	assert.Zero(
		t, sink.count(metric.UsersCreated),
		"no event for a rejected creation",
	)
}

func TestGetMissing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _, _ := newUseCase(t)

	_, err := uc.GetByID(ctx, 999)
	require.Error(t, err, "unknown identifier must be reported")
	assert.True(t, cerr.IsKind(err, http.StatusNotFound))
}

func TestList(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, store, _ := newUseCase(
		t, usersuc.WithDefaultPageSize(3), usersuc.WithMaxPageSize(5),
	)
	for i := 1; i <= 7; i++ {
		store.SeedUser(
			fmt.Sprintf("u%d", i), fmt.Sprintf("u%d@example.com", i),
		)
	}

	items, err := uc.List(ctx, 0, 0)
	r.NoError(err, "listing with the default page size")
	r.Len(items, 3, "default page size must be applied")
	assert.EqualValues(t, 1, items[0].ID, "ordered by identifiers")

	items, err = uc.List(ctx, 0, 100)
	r.NoError(err, "listing with an excessive limit")
	r.Len(items, 5, "limits are capped at the max page size")

	items, err = uc.List(ctx, 5, 5)
	r.NoError(err, "listing the last page")
	r.Len(items, 2, "a partial last page")
	assert.EqualValues(t, 6, items[0].ID)

	items, err = uc.List(ctx, 100, 5)
	r.NoError(err, "listing behind the last row")
	r.NotNil(items, "an empty window is not an error")
	r.Empty(items)

	items, err = uc.List(ctx, -3, 2)
	r.NoError(err, "listing with a negative skip")
	r.Len(items, 2, "negative skips count as zero")
	assert.EqualValues(t, 1, items[0].ID)
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, store, _ := newUseCase(t)
	u := store.SeedUser("alice", "alice@example.com")

	name := "alicia"
	got, err := uc.Update(ctx, u.ID, model.UserPatch{Username: &name})
	r.NoError(err, "updating the username")
	assert.Equal(t, "alicia", got.Username)
	assert.Equal(
		t, "alice@example.com", got.Email,
		"absent patch fields must stay intact",
	)

	_, err = uc.Update(ctx, u.ID, model.UserPatch{})
	r.Error(err, "empty patch must be rejected")
	assert.True(t, cerr.IsKind(err, http.StatusBadRequest))
	assert.ErrorIs(t, err, model.ErrEmptyPatch)

	empty := ""
	_, err = uc.Update(ctx, u.ID, model.UserPatch{Email: &empty})
	r.Error(err, "blanking the email must be rejected")
	assert.True(t, cerr.IsKind(err, http.StatusBadRequest))

	_, err = uc.Update(ctx, 999, model.UserPatch{Username: &name})
	r.Error(err, "unknown identifier must be reported")
	assert.True(t, cerr.IsKind(err, http.StatusNotFound))
}

func TestDelete(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, store, _ := newUseCase(t)
	u := store.SeedUser("alice", "alice@example.com")
	author := store.SeedUser("bob", "bob@example.com")
	store.SeedPost("Welcome", "First post.", author.ID)

	r.NoError(uc.Delete(ctx, u.ID), "deleting a user without posts")
	_, err := uc.GetByID(ctx, u.ID)
	assert.True(
		t, cerr.IsKind(err, http.StatusNotFound),
		"deleted user must be gone",
	)

	err = uc.Delete(ctx, u.ID)
	r.Error(err, "repeated deletion must be reported")
	assert.True(t, cerr.IsKind(err, http.StatusNotFound))

	err = uc.Delete(ctx, author.ID)
	r.Error(err, "a referenced author must be kept")
	assert.True(t, cerr.IsKind(err, http.StatusBadRequest))
	_, err = uc.GetByID(ctx, author.ID)
	assert.NoError(t, err, "rejected deletion must leave the row")
}

func TestParallelCreates(t *testing.T) {
	t.Parallel()
	r := require.New(t)
	ctx := context.Background()
	uc, store, sink := newUseCase(t)

	const n = 5
	users := make([]*model.User, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			users[i], errs[i] = uc.Create(
				ctx,
				fmt.Sprintf("u%d", i),
				fmt.Sprintf("u%d@example.com", i),
			)
		}(i)
	}
	wg.Wait()

	ids := make(map[int64]bool, n)
	for i := 0; i < n; i++ {
		r.NoError(errs[i], "concurrent creation i=%d", i)
		ids[users[i].ID] = true
	}
	r.Len(ids, n, "identifiers must be distinct")
	assert.Len(t, store.Users(), n, "all rows must be committed")
	assert.Equal(
		t, n, sink.count(metric.UsersCreated),
		"one event per committed creation",
	)
}
