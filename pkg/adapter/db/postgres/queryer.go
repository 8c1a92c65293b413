package postgres

import (
	"context"

	"github.com/wikisvc/wikiweb/pkg/core/repo"
	"gorm.io/gorm"
)

// Queryer constrains the generic query functions of the repository
// packages to a *Conn or *Tx instance. The GORM method is declared
// explicitly, so those functions can call it on their type parameter.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer

	GORM(ctx context.Context) *gorm.DB
}
