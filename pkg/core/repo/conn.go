package repo

import "context"

// TxHandler is a callback which runs in the scope of an open
// transaction. Returning a non-nil error or panicking causes a
// rollback, otherwise the transaction will be committed.
type TxHandler func(ctx context.Context, tx Tx) error

// Conn represents one acquired database connection.
//
// Statements which are executed directly on a Conn run in autocommit
// mode, hence, each of them commits independently. The Tx method
// starts a transaction on the same connection, runs the handler, and
// then commits or rolls back based on the handler outcome. A Conn
// instance must not be used after its acquiring handler returns.
type Conn interface {
	Queryer

	Tx(ctx context.Context, handler TxHandler) error

	// IsConn distinguishes a connection from a transaction, so a Conn
	// instance cannot be passed mistakenly as a Tx instance.
	IsConn()
}
