package repo

import (
	"context"

	"github.com/wikisvc/wikiweb/pkg/core/model"
)

type UsersConnQueryer interface {
	UsersQueryer
}

type UsersTxQueryer interface {
	UsersQueryer
}

// UsersQueryer contains the operations of the users repository.
// GetByID, Update, and Delete fail with a cerr.NotFound error when no
// row has the given identifier, while List simply returns an empty
// slice when the pagination window passes the last row.
type UsersQueryer interface {
	Create(ctx context.Context, username, email string) (*model.User, error)
	GetByID(ctx context.Context, userID int64) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]model.User, error)
	Update(ctx context.Context, userID int64, patch model.UserPatch) (*model.User, error)
	Delete(ctx context.Context, userID int64) error
}

// Users interface adapts a Conn or Tx instance, making it usable
// for running the users repository queries.
type Users interface {
	Conn(Conn) UsersConnQueryer
	Tx(Tx) UsersTxQueryer
}
