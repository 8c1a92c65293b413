// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersuc contains the users UseCase which supports the
// users related use cases:
//  1. Creating a user,
//  2. Fetching a user by its identifier,
//  3. Listing users with pagination,
//  4. Updating a user partially,
//  5. Deleting a user.
package usersuc

import (
	"context"
	"errors"
	"fmt"

	"github.com/wikisvc/wikiweb/pkg/core/cerr"
	"github.com/wikisvc/wikiweb/pkg/core/metric"
	"github.com/wikisvc/wikiweb/pkg/core/model"
	"github.com/wikisvc/wikiweb/pkg/core/repo"
	"github.com/wikisvc/wikiweb/pkg/core/txn"
)

// UseCase represents a users use case. It holds a transaction
// coordinator, the users repository instance (to be guided with a
// connection or transaction from the coordinator), and the users use
// case specific settings.
type UseCase struct {
	co      *txn.Coordinator
	usersrp repo.Users

	defaultPageSize int
	maxPageSize     int
}

// New instantiates a users use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(co *txn.Coordinator, u repo.Users, opts ...Option) (*UseCase, error) {
	uc := &UseCase{co: co, usersrp: u}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.defaultPageSize == 0 {
		uc.defaultPageSize = 10
	}
	if uc.maxPageSize == 0 {
		uc.maxPageSize = 100
	}
	if uc.defaultPageSize > uc.maxPageSize {
		return nil, fmt.Errorf(
			"default page size (%d) exceeds the maximum (%d)",
			uc.defaultPageSize, uc.maxPageSize,
		)
	}
	return uc, nil
}

// Create use case creates a new user with the given username and
// email address, persisting it with a fresh serial identifier.
// The users creation counter is incremented if and only if the
// enclosing transaction commits successfully. The created user model
// and possible errors are returned.
func (users *UseCase) Create(ctx context.Context, username, email string) (user *model.User, err error) {
	if username == "" {
		return nil, cerr.BadRequest(errors.New("username must not be empty"))
	}
	if email == "" {
		return nil, cerr.BadRequest(errors.New("email must not be empty"))
	}
	err = users.co.Run(
		ctx, metric.UsersCreated,
		func(ctx context.Context, tx repo.Tx) error {
			q := users.usersrp.Tx(tx)
			user, err = q.Create(ctx, username, email)
			return err
		},
	)
	if err != nil {
		user = nil
	}
	return
}

// GetByID use case fetches the user which is identified by the uid
// identifier. A cerr.NotFound error is returned when no user has that
// identifier.
func (users *UseCase) GetByID(ctx context.Context, uid int64) (user *model.User, err error) {
	err = users.co.View(ctx, func(ctx context.Context, c repo.Conn) error {
		q := users.usersrp.Conn(c)
		user, err = q.GetByID(ctx, uid)
		return err
	})
	if err != nil {
		user = nil
	}
	return
}

// List use case lists users ordered by their identifiers, skipping
// the first skip users and returning at most limit users. A negative
// skip counts as zero, a non-positive limit is replaced by the
// default page size, and a limit beyond the maximum page size is
// capped at it. A window which passes the last user produces an empty
// (non-nil) slice.
func (users *UseCase) List(ctx context.Context, skip, limit int) (items []model.User, err error) {
	offset, size := paginate(skip, limit, users.defaultPageSize, users.maxPageSize)
	err = users.co.View(ctx, func(ctx context.Context, c repo.Conn) error {
		q := users.usersrp.Conn(c)
		items, err = q.List(ctx, offset, size)
		return err
	})
	if err != nil {
		items = nil
	}
	return
}

// Update use case modifies the fields of the uid user which are
// present in the patch argument, leaving other fields intact. An
// empty patch or a patch which carries an empty value is rejected
// with a cerr.BadRequest error before touching the database, while a
// missing user causes a cerr.NotFound error and a rollback. The
// updated user model and possible errors are returned.
func (users *UseCase) Update(ctx context.Context, uid int64, patch model.UserPatch) (user *model.User, err error) {
	if err = patch.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = users.co.Run(
		ctx, "", func(ctx context.Context, tx repo.Tx) error {
			q := users.usersrp.Tx(tx)
			user, err = q.Update(ctx, uid, patch)
			return err
		},
	)
	if err != nil {
		user = nil
	}
	return
}

// Delete use case removes the uid user. A cerr.NotFound error is
// returned (after a rollback) when no user has that identifier and a
// cerr.BadRequest error when some posts still name the user as their
// author, since the store rejects dangling author references.
func (users *UseCase) Delete(ctx context.Context, uid int64) error {
	return users.co.Run(
		ctx, "", func(ctx context.Context, tx repo.Tx) error {
			q := users.usersrp.Tx(tx)
			return q.Delete(ctx, uid)
		},
	)
}

// paginate normalizes a skip and limit pair into the offset and page
// size which may be passed to a repository listing query.
func paginate(skip, limit, def, max int) (offset, size int) {
	if skip < 0 {
		skip = 0
	}
	switch {
	case limit <= 0:
		limit = def
	case limit > max:
		limit = max
	}
	return skip, limit
}
