package usersrp

import (
	"context"
	"fmt"

	"github.com/wikisvc/wikiweb/pkg/adapter/db/postgres"
	"github.com/wikisvc/wikiweb/pkg/core/cerr"
	"github.com/wikisvc/wikiweb/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gUser struct {
	ID       int64 `gorm:"primaryKey;column:id"`
	Username string
	Email    string
}

func (gu *gUser) TableName() string {
	return "users"
}

func (gu *gUser) Model() *model.User {
	return &model.User{
		ID:       gu.ID,
		Username: gu.Username,
		Email:    gu.Email,
	}
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, username, email string) (*model.User, error) {
	gdb := q.GORM(ctx)
	gu := gUser{
		Username: username,
		Email:    email,
	}
	if err := gdb.Create(&gu).Error; err != nil {
		return nil, fmt.Errorf("inserting: %w", postgres.ClassifyError(err))
	}
	return gu.Model(), nil
}

func GetByID[Q postgres.Queryer](ctx context.Context, q Q, userID int64) (*model.User, error) {
	gdb := q.GORM(ctx)
	var gu []gUser
	if err := gdb.Where("id=?", userID).Find(&gu).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gu); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gu[0].Model(), nil
}

func List[Q postgres.Queryer](ctx context.Context, q Q, offset, limit int) ([]model.User, error) {
	gdb := q.GORM(ctx)
	var gus []gUser
	err := gdb.Order("id ASC").Offset(offset).Limit(limit).Find(&gus).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	users := make([]model.User, len(gus))
	for i := range gus {
		users[i] = *gus[i].Model()
	}
	return users, nil
}

func Update[Q postgres.Queryer](ctx context.Context, q Q, userID int64, patch model.UserPatch) (*model.User, error) {
	// the patch is validated by the use case, hence non-empty here
	vals := make(map[string]any, 2)
	if patch.Username != nil {
		vals["username"] = *patch.Username
	}
	if patch.Email != nil {
		vals["email"] = *patch.Email
	}
	gdb := q.GORM(ctx)
	var gu []gUser
	res := gdb.Model(&gu).Clauses(clause.Returning{}).Where(
		"id=?", userID,
	).Updates(vals)
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("query: %w", postgres.ClassifyError(err))
	}
	if n := len(gu); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gu[0].Model(), nil
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, userID int64) error {
	gdb := q.GORM(ctx)
	res := gdb.Where("id=?", userID).Delete(&gUser{})
	if err := res.Error; err != nil {
		return fmt.Errorf("query: %w", postgres.ClassifyError(err))
	}
	if n := res.RowsAffected; n != 1 {
		return cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return nil
}
