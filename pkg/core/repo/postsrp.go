package repo

import (
	"context"

	"github.com/wikisvc/wikiweb/pkg/core/model"
)

type PostsConnQueryer interface {
	PostsQueryer
}

type PostsTxQueryer interface {
	PostsQueryer
}

// PostsQueryer contains the operations of the posts repository.
// Create fails with a cerr.BadRequest error when the author does not
// exist, as detected by the foreign key constraint violation.
type PostsQueryer interface {
	Create(ctx context.Context, title, content string, authorID int64) (*model.Post, error)
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	List(ctx context.Context, offset, limit int) ([]model.Post, error)
	Update(ctx context.Context, postID int64, patch model.PostPatch) (*model.Post, error)
	Delete(ctx context.Context, postID int64) error
}

// Posts interface adapts a Conn or Tx instance, making it usable
// for running the posts repository queries.
type Posts interface {
	Conn(Conn) PostsConnQueryer
	Tx(Tx) PostsTxQueryer
}
