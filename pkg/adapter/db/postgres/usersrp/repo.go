// Package usersrp implements the users repository over a PostgreSQL
// database, resolving each operation with the GORM framework through
// a *postgres.Conn or *postgres.Tx session.
package usersrp

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

func (users *Repo) Conn(c repo.Conn) repo.UsersConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Create(ctx context.Context, username, email string) (*model.User, error) {
	return Create(ctx, cq.Conn, username, email)
}

func (cq connQueryer) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	return GetByID(ctx, cq.Conn, userID)
}

func (cq connQueryer) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	return List(ctx, cq.Conn, offset, limit)
}

func (cq connQueryer) Update(ctx context.Context, userID int64, patch model.UserPatch) (*model.User, error) {
	return Update(ctx, cq.Conn, userID, patch)
}

func (cq connQueryer) Delete(ctx context.Context, userID int64) error {
	return Delete(ctx, cq.Conn, userID)
}

type txQueryer struct {
	*postgres.Tx
}

func (users *Repo) Tx(tx repo.Tx) repo.UsersTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Create(ctx context.Context, username, email string) (*model.User, error) {
	return Create(ctx, tq.Tx, username, email)
}

func (tq txQueryer) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	return GetByID(ctx, tq.Tx, userID)
}

func (tq txQueryer) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	return List(ctx, tq.Tx, offset, limit)
}

func (tq txQueryer) Update(ctx context.Context, userID int64, patch model.UserPatch) (*model.User, error) {
	return Update(ctx, tq.Tx, userID, patch)
}

func (tq txQueryer) Delete(ctx context.Context, userID int64) error {
	return Delete(ctx, tq.Tx, userID)
}
