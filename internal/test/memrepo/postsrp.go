// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memrepo

import (
	"context"
	"fmt"

	"github.com/wikisvc/wikiweb/pkg/core/cerr"
	"github.com/wikisvc/wikiweb/pkg/core/model"
	"github.com/wikisvc/wikiweb/pkg/core/repo"
)

// Posts implements the repo.Posts contract over the memrepo sessions.
// The author reference of a created post is checked against the
// session-visible users, mirroring the foreign key enforcement of the
// real store.
type Posts struct {
}

func (posts Posts) Conn(c repo.Conn) repo.PostsConnQueryer {
	return postsQueryer{connSession{c: c.(*Conn)}}
}

func (posts Posts) Tx(tx repo.Tx) repo.PostsTxQueryer {
	return postsQueryer{txSession{tx: tx.(*Tx)}}
}

type postsQueryer struct {
	s session
}

func (q postsQueryer) Create(
	ctx context.Context, title, content string, authorID int64,
) (*model.Post, error) {
	var authorOK bool
	q.s.read(func(st *state) {
		_, authorOK = st.users[authorID]
	})
	if !authorOK {
		return nil, cerr.BadRequest(
			fmt.Errorf("author %d does not exist", authorID),
		)
	}
	p := model.Post{
		ID:       q.s.store().nextPostID(),
		Title:    title,
		Content:  content,
		AuthorID: authorID,
	}
	q.s.write(func(st *state) {
		st.posts[p.ID] = p
	})
	return &p, nil
}

func (q postsQueryer) GetByID(
	ctx context.Context, postID int64,
) (*model.Post, error) {
	var p model.Post
	var ok bool
	q.s.read(func(st *state) {
		p, ok = st.posts[postID]
	})
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("post %d does not exist", postID),
		)
	}
	return &p, nil
}

func (q postsQueryer) List(
	ctx context.Context, offset, limit int,
) ([]model.Post, error) {
	var items []model.Post
	q.s.read(func(st *state) {
		items = sortedValues(st.posts, func(p model.Post) int64 {
			return p.ID
		})
	})
	return window(items, offset, limit), nil
}

func (q postsQueryer) Update(
	ctx context.Context, postID int64, patch model.PostPatch,
) (*model.Post, error) {
	var p model.Post
	var ok bool
	q.s.read(func(st *state) {
		p, ok = st.posts[postID]
	})
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("post %d does not exist", postID),
		)
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	q.s.write(func(st *state) {
		st.posts[p.ID] = p
	})
	return &p, nil
}

func (q postsQueryer) Delete(ctx context.Context, postID int64) error {
	var ok bool
	q.s.read(func(st *state) {
		_, ok = st.posts[postID]
	})
	if !ok {
		return cerr.NotFound(
			fmt.Errorf("post %d does not exist", postID),
		)
	}
	q.s.write(func(st *state) {
		delete(st.posts, postID)
	})
	return nil
}
