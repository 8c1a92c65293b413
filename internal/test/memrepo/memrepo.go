// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memrepo is an internal helper for the test packages. It
// provides in-memory stand-ins for the connection pool and the users
// and posts repositories, so the use cases and the transaction
// coordination logic can be tested without a DBMS server.
// The stand-ins keep the observable session semantics of the real
// adapters: a Pool has a bounded number of concurrently usable
// connection slots and a bounded acquisition wait, mutations of a
// transaction stay invisible to other sessions until the commit
// applies them atomically, and identifiers burnt by a rolled back
// transaction are never handed out again (like a DBMS sequence).
package memrepo

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/wikisvc/wikiweb/pkg/core/cerr"
	"github.com/wikisvc/wikiweb/pkg/core/model"
	"github.com/wikisvc/wikiweb/pkg/core/repo"
)

// state holds one version of the stored rows. The committed version
// lives in a Store, while each open transaction stages its own copy.
type state struct {
	users map[int64]model.User
	posts map[int64]model.Post
}

func (s state) clone() state {
	return state{
		users: maps.Clone(s.users),
		posts: maps.Clone(s.posts),
	}
}

// Store holds the committed rows and the identifier sequences. A
// single Store may back any number of pools and repositories and is
// safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	state    state
	nextUser int64
	nextPost int64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		state: state{
			users: make(map[int64]model.User),
			posts: make(map[int64]model.Post),
		},
	}
}

// nextUserID burns and returns the next users identifier. Rolling
// back the enclosing transaction does not reclaim the identifier.
func (s *Store) nextUserID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUser++
	return s.nextUser
}

// nextPostID acts like nextUserID for the posts identifiers.
func (s *Store) nextPostID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPost++
	return s.nextPost
}

// SeedUser inserts a committed user row directly, bypassing the
// session lifecycle, so a test can prepare its fixture rows briefly.
func (s *Store) SeedUser(username, email string) model.User {
	u := model.User{
		ID:       s.nextUserID(),
		Username: username,
		Email:    email,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.users[u.ID] = u
	return u
}

// SeedPost acts like SeedUser for a post row. The author reference is
// not validated since fixtures are trusted.
func (s *Store) SeedPost(
	title, content string, authorID int64,
) model.Post {
	p := model.Post{
		ID:       s.nextPostID(),
		Title:    title,
		Content:  content,
		AuthorID: authorID,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.posts[p.ID] = p
	return p
}

// Users returns the committed user rows ordered by their identifiers,
// so a test can observe the committed contents without opening a
// session.
func (s *Store) Users() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.state.users, func(u model.User) int64 {
		return u.ID
	})
}

// Posts acts like Users for the committed post rows.
func (s *Store) Posts() []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.state.posts, func(p model.Post) int64 {
		return p.ID
	})
}

func sortedValues[V any](m map[int64]V, id func(V) int64) []V {
	vals := make([]V, 0, len(m))
	for _, v := range m {
		vals = append(vals, v)
	}
	slices.SortFunc(vals, func(a, b V) int {
		return cmp.Compare(id(a), id(b))
	})
	return vals
}

// Pool implements repo.Pool over a Store with a bounded number of
// concurrently usable connection slots and a bounded acquisition
// wait, mirroring the saturation behavior of the real pool.
type Pool struct {
	store          *Store
	sem            chan struct{}
	acquireTimeout time.Duration
}

// NewPool creates a Pool over the given store with capacity
// connection slots. A handler which cannot get a free slot within
// the acquireTimeout fails with a cerr.ResourceExhausted error
// without running at all.
func NewPool(
	store *Store, capacity int, acquireTimeout time.Duration,
) *Pool {
	return &Pool{
		store:          store,
		sem:            make(chan struct{}, capacity),
		acquireTimeout: acquireTimeout,
	}
}

// Conn acquires one free connection slot, runs the handler with a
// connection which is bound to it, and releases the slot when the
// handler returns, even if it panics.
func (p *Pool) Conn(ctx context.Context, handler repo.ConnHandler) error {
	t := time.NewTimer(p.acquireTimeout)
	defer t.Stop()
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		// a caller-side cancellation keeps its own error
		return fmt.Errorf("acquiring connection: %w", ctx.Err())
	case <-t.C:
		return cerr.ResourceExhausted(fmt.Errorf(
			"no connection became free in %v", p.acquireTimeout,
		))
	}
	defer func() {
		<-p.sem
	}()
	return handler(ctx, &Conn{store: p.store})
}

// Conn implements repo.Conn over the committed store contents.
// Mutations through a Conn apply immediately, mirroring the
// autocommit mode of a real connection.
type Conn struct {
	store *Store
}

// IsConn marks Conn as a connection.
func (c *Conn) IsConn() {
}

// Exec accepts any statement without interpreting it.
func (c *Conn) Exec(
	ctx context.Context, sql string, args ...any,
) (int64, error) {
	return 1, nil
}

// Query accepts any statement and reports zero resulting rows, which
// suffices for the liveness probing queries.
func (c *Conn) Query(
	ctx context.Context, sql string, args ...any,
) (repo.Rows, error) {
	return emptyRows{}, nil
}

// Tx stages a transaction, runs the handler in its scope, and applies
// the staged mutations to the committed store contents if and only if
// the handler returns nil.
func (c *Conn) Tx(ctx context.Context, handler repo.TxHandler) error {
	s := c.store
	s.mu.Lock()
	tx := &Tx{store: s, staged: s.state.clone()}
	s.mu.Unlock()
	if err := handler(ctx, tx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, apply := range tx.journal {
		apply(&s.state)
	}
	return nil
}

// Tx implements repo.Tx with staged contents. Reads observe the
// snapshot which was taken at the transaction start plus its own
// writes, while other sessions observe nothing until the commit.
type Tx struct {
	store   *Store
	staged  state
	journal []func(*state)
}

// IsTx marks Tx as a transaction.
func (tx *Tx) IsTx() {
}

// Exec accepts any statement without interpreting it.
func (tx *Tx) Exec(
	ctx context.Context, sql string, args ...any,
) (int64, error) {
	return 1, nil
}

// Query accepts any statement and reports zero resulting rows.
func (tx *Tx) Query(
	ctx context.Context, sql string, args ...any,
) (repo.Rows, error) {
	return emptyRows{}, nil
}

type emptyRows struct{}

func (emptyRows) Close() {
}

func (emptyRows) Err() error {
	return nil
}

func (emptyRows) Next() bool {
	return false
}

func (emptyRows) Scan(dest ...any) error {
	return errors.New("no row to scan")
}

func (emptyRows) Values() ([]any, error) {
	return nil, errors.New("no row to read")
}

// session abstracts whether the repository operations run on a Conn
// (against the committed contents, applying immediately) or on a Tx
// (against the staged contents, applying at the commit).
type session interface {
	// read runs op with a read access to the visible contents.
	read(op func(s *state))
	// write runs op as a mutation of the visible contents.
	write(op func(s *state))
	// store returns the backing Store, e.g., for identifier burning.
	store() *Store
}

type connSession struct {
	c *Conn
}

func (cs connSession) read(op func(s *state)) {
	s := cs.c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	op(&s.state)
}

func (cs connSession) write(op func(s *state)) {
	cs.read(op) // autocommit, the mutation applies immediately
}

func (cs connSession) store() *Store {
	return cs.c.store
}

type txSession struct {
	tx *Tx
}

func (ts txSession) read(op func(s *state)) {
	op(&ts.tx.staged)
}

func (ts txSession) write(op func(s *state)) {
	op(&ts.tx.staged)
	ts.tx.journal = append(ts.tx.journal, op)
}

func (ts txSession) store() *Store {
	return ts.tx.store
}
