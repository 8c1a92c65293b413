// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemarp provides a reification of the repo.Schema interface
// making it possible to create or drop the users and posts tables and
// manage database user roles.
package schemarp

import (
	"context"

	"github.com/wikisvc/wikiweb/pkg/adapter/db/postgres"
	"github.com/wikisvc/wikiweb/pkg/core/repo"
	"github.com/wikisvc/wikiweb/pkg/core/scram"
)

// Repo represents a tables and roles management repository. It keeps
// the optional role name suffix which distinguishes parallel
// deployments sharing one DBMS and the SCRAM hasher which protects
// role passwords before they embed in DDL statements.
type Repo struct {
	roleSuffix repo.Role
	hasher     scram.Hasher
}

// New instantiates a tables and roles management Repo struct with the
// given role name suffix and password hasher. The hasher may be nil
// if the ChangePasswords method is not going to be used.
func New(roleSuffix repo.Role, hasher scram.Hasher) *Repo {
	return &Repo{
		roleSuffix: roleSuffix,
		hasher:     hasher,
	}
}

type connQueryer struct {
	*postgres.Conn
	roleSuffix repo.Role
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn as created by this adapter layer.
// Otherwise, it will panic. Unwrapped connection will be wrapped and
// returned as an instance of repo.SchemaConnQueryer interface, so
// it can be used in the use cases layer without requiring to type
// assert again and again.
func (schema *Repo) Conn(c repo.Conn) repo.SchemaConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc, roleSuffix: schema.roleSuffix}
}

// DropTablesIfExist drops the posts and users tables if they exist,
// in that order, so the foreign key from posts to users cannot block
// the operation.
func (cq connQueryer) DropTablesIfExist(ctx context.Context) error {
	return DropTablesIfExist(ctx, cq.Conn)
}

// CreateRoleIfNotExists creates the `role` role if it does not
// exist right now. Although the login option is enabled for the
// created role, but no specific password will be set for it.
// The ChangePasswords method may be used for setting a password if
// desired. Otherwise, that user may not login effectively (but
// using the trust or local identity methods).
func (cq connQueryer) CreateRoleIfNotExists(
	ctx context.Context, role repo.Role,
) error {
	return CreateRoleIfNotExists(ctx, cq.Conn, cq.roleSuffix, role)
}

// GrantPrivileges grants ALL privileges on the public schema to the
// `role` role, so it may create or access tables in that schema and
// run relevant queries.
func (cq connQueryer) GrantPrivileges(
	ctx context.Context, role repo.Role,
) error {
	return GrantPrivileges(ctx, cq.Conn, cq.roleSuffix, role)
}

type txQueryer struct {
	*postgres.Tx
	roleSuffix repo.Role
	hasher     scram.Hasher
}

// Tx unwraps the given repo.Tx instance, expecting to find an instance
// of *postgres.Tx as created by this adapter layer. Otherwise, it will
// panic. Unwrapped transaction will be wrapped and returned as an
// instance of repo.SchemaTxQueryer interface, so it can be used in
// the use cases layer without requiring to type assert again and again.
// Returned querier instance can be used to run the transaction-specific
// queries in addition to queries which support connections and
// transactions. Roles creation, privileges granting, passwords
// renewal, and tables creation take effect atomically when the
// wrapped transaction commits.
func (schema *Repo) Tx(tx repo.Tx) repo.SchemaTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{
		Tx:         tt,
		roleSuffix: schema.roleSuffix,
		hasher:     schema.hasher,
	}
}

// DropTablesIfExist drops the posts and users tables if they exist,
// in that order, so the foreign key from posts to users cannot block
// the operation.
func (tq txQueryer) DropTablesIfExist(ctx context.Context) error {
	return DropTablesIfExist(ctx, tq.Tx)
}

// CreateRoleIfNotExists creates the `role` role if it does not
// exist right now. Although the login option is enabled for the
// created role, but no specific password will be set for it.
// The ChangePasswords method may be used for setting a password if
// desired. Otherwise, that user may not login effectively (but
// using the trust or local identity methods).
func (tq txQueryer) CreateRoleIfNotExists(
	ctx context.Context, role repo.Role,
) error {
	return CreateRoleIfNotExists(ctx, tq.Tx, tq.roleSuffix, role)
}

// GrantPrivileges grants ALL privileges on the public schema to the
// `role` role, so it may create or access tables in that schema and
// run relevant queries.
func (tq txQueryer) GrantPrivileges(
	ctx context.Context, role repo.Role,
) error {
	return GrantPrivileges(ctx, tq.Tx, tq.roleSuffix, role)
}

// ChangePasswords updates the passwords of the given roles in the
// current transaction. The roles and passwords slices must have the
// same number of entries, so they can be used in pair.
func (tq txQueryer) ChangePasswords(
	ctx context.Context, roles []repo.Role, passwords []string,
) error {
	return ChangePasswords(
		ctx, tq.Tx, tq.roleSuffix, tq.hasher, roles, passwords,
	)
}

// CreateTables creates the users and posts tables with their
// integrity constraints. The executing role becomes their owner.
func (tq txQueryer) CreateTables(ctx context.Context) error {
	return CreateTables(ctx, tq.Tx)
}

// SeedDevRows fills the users and posts tables with the development
// suitable initial rows.
func (tq txQueryer) SeedDevRows(ctx context.Context) error {
	return SeedDevRows(ctx, tq.Tx)
}
