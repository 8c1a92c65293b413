package repo

import "context"

// Queryer runs SQL statements on a connection or transaction.
// Exec reports the number of affected rows, while Query returns the
// resulting rows themselves. Rows must be closed before running
// another statement on the same Queryer.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
	Values() ([]any, error)
}
