// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postsuc contains the posts UseCase which supports the
// posts related use cases:
//  1. Creating a post for an existing author,
//  2. Fetching a post by its identifier,
//  3. Listing posts with pagination,
//  4. Updating a post partially,
//  5. Deleting a post.
package postsuc

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

// UseCase represents a posts use case. It holds a transaction
// coordinator, the posts repository instance (to be guided with a
// connection or transaction from the coordinator), and the posts use
// case specific settings.
type UseCase struct {
	co      *txn.Coordinator
	postsrp repo.Posts

	defaultPageSize int
	maxPageSize     int
}

// New instantiates a posts use case.
// Required parameters are passed individually and optional parameters
// are passed as a series of functional options, following the same
// scheme which is described for the usersuc.New function.
func New(co *txn.Coordinator, p repo.Posts, opts ...Option) (*UseCase, error) {
	uc := &UseCase{co: co, postsrp: p}
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

// Create use case creates a new post with the given title and content
// for the author which is identified by the authorID identifier.
// A missing author surfaces as a cerr.BadRequest error because the
// store rejects the dangling reference and the transaction rolls
// back. The posts creation counter is incremented if and only if the
// transaction commits successfully. The created post model and
// possible errors are returned.
func (posts *UseCase) Create(ctx context.Context, title, content string, authorID int64) (post *model.Post, err error) {
	if title == "" {
		return nil, cerr.BadRequest(errors.New("title must not be empty"))
	}
	err = posts.co.Run(
		ctx, metric.PostsCreated,
		func(ctx context.Context, tx repo.Tx) error {
			q := posts.postsrp.Tx(tx)
			post, err = q.Create(ctx, title, content, authorID)
			return err
		},
	)
	if err != nil {
		post = nil
	}
	return
}

// GetByID use case fetches the post which is identified by the pid
// identifier. A cerr.NotFound error is returned when no post has that
// identifier.
func (posts *UseCase) GetByID(ctx context.Context, pid int64) (post *model.Post, err error) {
	err = posts.co.View(ctx, func(ctx context.Context, c repo.Conn) error {
		q := posts.postsrp.Conn(c)
		post, err = q.GetByID(ctx, pid)
		return err
	})
	if err != nil {
		post = nil
	}
	return
}

// List use case lists posts ordered by their identifiers, skipping
// the first skip posts and returning at most limit posts, applying
// the same normalization which is described for the users listing.
func (posts *UseCase) List(ctx context.Context, skip, limit int) (items []model.Post, err error) {
	offset, size := paginate(skip, limit, posts.defaultPageSize, posts.maxPageSize)
	err = posts.co.View(ctx, func(ctx context.Context, c repo.Conn) error {
		q := posts.postsrp.Conn(c)
		items, err = q.List(ctx, offset, size)
		return err
	})
	if err != nil {
		items = nil
	}
	return
}

// Update use case modifies the fields of the pid post which are
// present in the patch argument, leaving other fields intact. An
// empty patch or an empty title is rejected with a cerr.BadRequest
// error before touching the database, while a missing post causes a
// cerr.NotFound error and a rollback. The updated post model and
// possible errors are returned.
func (posts *UseCase) Update(ctx context.Context, pid int64, patch model.PostPatch) (post *model.Post, err error) {
	if err = patch.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = posts.co.Run(
		ctx, "", func(ctx context.Context, tx repo.Tx) error {
			q := posts.postsrp.Tx(tx)
			post, err = q.Update(ctx, pid, patch)
			return err
		},
	)
	if err != nil {
		post = nil
	}
	return
}

// Delete use case removes the pid post. A cerr.NotFound error is
// returned (after a rollback) when no post has that identifier.
func (posts *UseCase) Delete(ctx context.Context, pid int64) error {
	return posts.co.Run(
		ctx, "", func(ctx context.Context, tx repo.Tx) error {
			q := posts.postsrp.Tx(tx)
			return q.Delete(ctx, pid)
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
