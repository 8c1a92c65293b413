// Package postsrp implements the posts repository over a PostgreSQL
// database, resolving each operation with the GORM framework through
// a *postgres.Conn or *postgres.Tx session.
package postsrp

import (
	"context"

	"github.com/wikisvc/wikiweb/pkg/adapter/db/postgres"
	"github.com/wikisvc/wikiweb/pkg/core/model"
	"github.com/wikisvc/wikiweb/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (posts *Repo) Conn(c repo.Conn) repo.PostsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Create(ctx context.Context, title, content string, authorID int64) (*model.Post, error) {
	return Create(ctx, cq.Conn, title, content, authorID)
}

func (cq connQueryer) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	return GetByID(ctx, cq.Conn, postID)
}

func (cq connQueryer) List(ctx context.Context, offset, limit int) ([]model.Post, error) {
	return List(ctx, cq.Conn, offset, limit)
}

func (cq connQueryer) Update(ctx context.Context, postID int64, patch model.PostPatch) (*model.Post, error) {
	return Update(ctx, cq.Conn, postID, patch)
}

func (cq connQueryer) Delete(ctx context.Context, postID int64) error {
	return Delete(ctx, cq.Conn, postID)
}

type txQueryer struct {
	*postgres.Tx
}

func (posts *Repo) Tx(tx repo.Tx) repo.PostsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Create(ctx context.Context, title, content string, authorID int64) (*model.Post, error) {
	return Create(ctx, tq.Tx, title, content, authorID)
}

func (tq txQueryer) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	return GetByID(ctx, tq.Tx, postID)
}

func (tq txQueryer) List(ctx context.Context, offset, limit int) ([]model.Post, error) {
	return List(ctx, tq.Tx, offset, limit)
}

func (tq txQueryer) Update(ctx context.Context, postID int64, patch model.PostPatch) (*model.Post, error) {
	return Update(ctx, tq.Tx, postID, patch)
}

func (tq txQueryer) Delete(ctx context.Context, postID int64) error {
	return Delete(ctx, tq.Tx, postID)
}
