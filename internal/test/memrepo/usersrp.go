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

// Users implements the repo.Users contract over the memrepo sessions,
// like the real repository implements it over the postgres sessions.
type Users struct {
}

func (users Users) Conn(c repo.Conn) repo.UsersConnQueryer {
	return usersQueryer{connSession{c: c.(*Conn)}}
}

func (users Users) Tx(tx repo.Tx) repo.UsersTxQueryer {
	return usersQueryer{txSession{tx: tx.(*Tx)}}
}

type usersQueryer struct {
	s session
}

func (q usersQueryer) Create(
	ctx context.Context, username, email string,
) (*model.User, error) {
	u := model.User{
		ID:       q.s.store().nextUserID(),
		Username: username,
		Email:    email,
	}
	q.s.write(func(st *state) {
		st.users[u.ID] = u
	})
	return &u, nil
}

func (q usersQueryer) GetByID(
	ctx context.Context, userID int64,
) (*model.User, error) {
	var u model.User
	var ok bool
	q.s.read(func(st *state) {
		u, ok = st.users[userID]
	})
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("user %d does not exist", userID),
		)
	}
	return &u, nil
}

func (q usersQueryer) List(
	ctx context.Context, offset, limit int,
) ([]model.User, error) {
	var items []model.User
	q.s.read(func(st *state) {
		items = sortedValues(st.users, func(u model.User) int64 {
			return u.ID
		})
	})
	return window(items, offset, limit), nil
}

func (q usersQueryer) Update(
	ctx context.Context, userID int64, patch model.UserPatch,
) (*model.User, error) {
	var u model.User
	var ok bool
	q.s.read(func(st *state) {
		u, ok = st.users[userID]
	})
	if !ok {
		return nil, cerr.NotFound(
			fmt.Errorf("user %d does not exist", userID),
		)
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	q.s.write(func(st *state) {
		st.users[u.ID] = u
	})
	return &u, nil
}

func (q usersQueryer) Delete(ctx context.Context, userID int64) error {
	var ok, referenced bool
	q.s.read(func(st *state) {
		_, ok = st.users[userID]
		for _, p := range st.posts {
			if p.AuthorID == userID {
				referenced = true
				break
			}
		}
	})
	if !ok {
		return cerr.NotFound(
			fmt.Errorf("user %d does not exist", userID),
		)
	}
	if referenced {
		return cerr.BadRequest(
			fmt.Errorf("user %d still authors posts", userID),
		)
	}
	q.s.write(func(st *state) {
		delete(st.users, userID)
	})
	return nil
}

// window cuts the offset/limit page out of the sorted items,
// reporting an empty non-nil slice when the page passes the last one.
func window[V any](items []V, offset, limit int) []V {
	if offset >= len(items) {
		return []V{}
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}
