package postsrp

import (
	"context"
	"fmt"

	"github.com/wikisvc/wikiweb/pkg/adapter/db/postgres"
	"github.com/wikisvc/wikiweb/pkg/core/cerr"
	"github.com/wikisvc/wikiweb/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gPost struct {
	ID       int64 `gorm:"primaryKey;column:id"`
	Title    string
	Content  string
	AuthorID int64 `gorm:"column:author_id"`
}

func (gp *gPost) TableName() string {
	return "posts"
}

func (gp *gPost) Model() *model.Post {
	return &model.Post{
		ID:       gp.ID,
		Title:    gp.Title,
		Content:  gp.Content,
		AuthorID: gp.AuthorID,
	}
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, title, content string, authorID int64) (*model.Post, error) {
	gdb := q.GORM(ctx)
	gp := gPost{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
	}
	if err := gdb.Create(&gp).Error; err != nil {
		return nil, fmt.Errorf("inserting: %w", postgres.ClassifyError(err))
	}
	return gp.Model(), nil
}

func GetByID[Q postgres.Queryer](ctx context.Context, q Q, postID int64) (*model.Post, error) {
	gdb := q.GORM(ctx)
	var gp []gPost
	if err := gdb.Where("id=?", postID).Find(&gp).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gp); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gp[0].Model(), nil
}

func List[Q postgres.Queryer](ctx context.Context, q Q, offset, limit int) ([]model.Post, error) {
	gdb := q.GORM(ctx)
	var gps []gPost
	err := gdb.Order("id ASC").Offset(offset).Limit(limit).Find(&gps).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	posts := make([]model.Post, len(gps))
	for i := range gps {
		posts[i] = *gps[i].Model()
	}
	return posts, nil
}

func Update[Q postgres.Queryer](ctx context.Context, q Q, postID int64, patch model.PostPatch) (*model.Post, error) {
	// the patch is validated by the use case, hence non-empty here
	vals := make(map[string]any, 2)
	if patch.Title != nil {
		vals["title"] = *patch.Title
	}
	if patch.Content != nil {
		vals["content"] = *patch.Content
	}
	gdb := q.GORM(ctx)
	var gp []gPost
	res := gdb.Model(&gp).Clauses(clause.Returning{}).Where(
		"id=?", postID,
	).Updates(vals)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", postgres.ClassifyError(err))
	}
	if n := len(gp); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gp[0].Model(), nil
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, postID int64) error {
	gdb := q.GORM(ctx)
	res := gdb.Where("id=?", postID).Delete(&gPost{})
	if err := res.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if n := res.RowsAffected; n != 1 {
		return cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return nil
}
