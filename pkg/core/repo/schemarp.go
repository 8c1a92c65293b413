// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// Schema interface presents expectations from a repository which
// allows database tables and roles management. This repository
// creates the users and posts tables and grants relevant privileges
// on them, so they may be queried during the serving use cases.
type Schema interface {
	// Conn takes a Conn interface instance, unwraps it as required,
	// and returns a SchemaConnQueryer interface which (with access to
	// the implementation-dependent connection object) can manage
	// database roles or drop old tables.
	Conn(Conn) SchemaConnQueryer

	// Tx takes a Tx interface instance, unwraps it as required,
	// and returns a SchemaTxQueryer interface which (with access to the
	// implementation-dependent transaction object) can create tables,
	// fill them with initial rows, grant privileges on them, or change
	// role passwords, taking effect atomically upon the commit.
	Tx(Tx) SchemaTxQueryer
}

// SchemaConnQueryer interface lists all operations which may be taken
// with regards to the database tables and roles having an open
// connection with the auto-committed transactions.
// Those operations which must be executed in a connection (and may not
// be executed in an ongoing transaction which may keep running other
// statements after this one) must be listed here, while other
// operations which do not strictly require an open connection (and may
// use an open transaction too) must be defined in the embedded
// SchemaQueryer interface. This design allows a unified implementation,
// while forcing developers to think about the consequences of having
// one or multiple transactions.
type SchemaConnQueryer interface {
	SchemaQueryer
}

// SchemaTxQueryer interface lists all operations which may be taken
// with regards to the database tables and roles having an ongoing
// transaction. Those operations which must be executed in a
// transaction (and may not be executed with a connection) must be
// listed here, while other operations which do not strictly require an
// open transaction (and can use their own auto-committed transaction
// too) must be defined in the embedded SchemaQueryer interface.
type SchemaTxQueryer interface {
	SchemaQueryer

	// ChangePasswords updates the passwords of the given roles
	// in the current transaction. The roles and passwords slices must
	// have the same number of entries, so they can be used in pair.
	// These fields are not combined as a struct with two role and
	// password fields because passing items separately ensures that
	// all items are initialized explicitly in contrast to a struct
	// which its fields can be zero-initialized and are more suitable
	// to pass a set of optional fields.
	// The given roles may be suffixed automatically too, based on
	// this transaction queryer settings.
	ChangePasswords(
		ctx context.Context, roles []Role, passwords []string,
	) error

	// CreateTables creates the users and posts tables, their integrity
	// constraints, and their identifier sequences. The tables must not
	// exist beforehand, otherwise, an error will be returned.
	CreateTables(ctx context.Context) error

	// SeedDevRows fills the users and posts tables with the development
	// suitable initial rows, so a fresh instance serves non-empty
	// listing responses without manual intervention.
	SeedDevRows(ctx context.Context) error
}

// SchemaQueryer interface lists common operations which may be taken
// with regards to the database tables and roles having either a
// connection or open transaction at hand. This interface is embedded
// by both of the SchemaConnQueryer and the SchemaTxQueryer in order
// to avoid redundant implementation.
type SchemaQueryer interface {
	// DropTablesIfExist drops the posts and users tables if they exist,
	// in that order, so the foreign key from posts to users cannot
	// block the operation. If the tables do not exist, a nil error will
	// be returned without any change.
	DropTablesIfExist(ctx context.Context) error

	// CreateRoleIfNotExists creates the `role` role if it does not
	// exist right now. Although the login option is enabled for the
	// created role, but no specific password will be set for it.
	// The ChangePasswords method may be used for setting a password if
	// desired. Otherwise, that user may not login effectively (but
	// using the trust or local identity methods).
	//
	// The `role` role name may be suffixed automatically based on
	// this schema queryer settings.
	CreateRoleIfNotExists(ctx context.Context, role Role) error

	// GrantPrivileges grants ALL privileges on the public schema
	// to the `role` role, so it may create the users and posts tables
	// in that schema, own them, and run relevant queries.
	//
	// The `role` role name may be suffixed automatically based on
	// this schema queryer settings.
	GrantPrivileges(ctx context.Context, role Role) error
}
