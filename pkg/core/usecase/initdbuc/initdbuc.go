// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package initdbuc contains the database initialization use case. It
// prepares a fresh (or previously initialized) database for serving:
// the normal role is created and granted its privileges using the
// admin role, role passwords are renewed and recorded in the
// passwords file, and then the tables are created by the normal role
// itself, optionally seeded with the development suitable rows.
package initdbuc

import (
	"context"
	"fmt"

	"github.com/wikisvc/wikiweb/pkg/core/repo"
)

// Pool combines the connection acquisition contract with the Close
// method, since this use case creates its own short-lived pools (one
// per role) and has to release their resources deterministically.
type Pool interface {
	repo.Pool

	Close() error
}

// Settings represents the expectations of the database initialization
// use case from the configuration file contents.
type Settings interface {
	// ConnectionPool creates a database connection pool using the
	// connection information which are kept in this Settings instance.
	// The `r` argument specifies the role name for the created
	// connection pool. The role password is resolved from the
	// passwords file which is located in the configured passwords
	// directory, trying the renewed passwords file as a fallback, so
	// an interrupted renewal cannot lock this use case out.
	ConnectionPool(ctx context.Context, r repo.Role) (Pool, error)

	// NewSchemaRepo instantiates a fresh Schema repository. Role names
	// may be optionally suffixed based on the settings and in that
	// case, repo.Role role names which are passed to the
	// ConnectionPool or RenewPasswords methods will be suffixed
	// automatically, hence, the Schema repository needs to obtain the
	// same role name suffix.
	NewSchemaRepo() repo.Schema

	// RenewPasswords generates new secure passwords for the given
	// roles and after recording them in a temporary passwords file,
	// will use the change function in order to update the passwords of
	// those roles in the database too. The change function argument
	// should perform the update operation in a transaction which may
	// or may not be committed when RenewPasswords returns. In case of
	// a successful commitment, the temporary passwords file should be
	// moved over the main passwords file using the returned finalizer
	// function, so the ConnectionPool method can keep working both if
	// the renewal transaction is or is not committed successfully.
	RenewPasswords(
		ctx context.Context,
		change func(
			ctx context.Context,
			roles []repo.Role,
			passwords []string,
		) error,
		roles ...repo.Role,
	) (finalizer func() error, err error)
}

// UseCase represents the database initialization use case. It may be
// used to initialize a database with development or production
// suitable contents as asked by the InitDev and InitProd methods, or
// to rotate the role passwords in place by the RenewPasswords method.
type UseCase struct {
	settings   Settings    // target settings
	schemaRepo repo.Schema // tables and roles management repo
}

// New creates an initialization UseCase instance, using the `ss`
// settings in order to find the target database connection
// information. The repo.Schema repo will be taken from the `ss` in
// order to be used for dropping and (re)creating the tables, creating
// the normal role, granting it privileges, and renewing the passwords
// of the admin and normal roles.
func New(ss Settings) *UseCase {
	return &UseCase{
		settings:   ss,
		schemaRepo: ss.NewSchemaRepo(),
	}
}

// InitDev initializes the database with the development suitable
// contents. Using the admin role in a single transaction, it drops
// the users and posts tables if they exist from a previous run,
// creates the normal role if it is missing, grants it the privileges
// which creating and querying the tables require, and renews the
// passwords of both admin and normal roles, recording them in the
// passwords file as elaborated in the docs of the
// Settings.RenewPasswords method. Thereafter, it connects to the
// target database using the normal role and completes its operation
// (in a second transaction) by creating the tables and filling them
// with the development suitable rows.
func (iduc *UseCase) InitDev(ctx context.Context) error {
	return iduc.initDB(
		ctx, func(ctx context.Context, q repo.SchemaTxQueryer) error {
			return q.SeedDevRows(ctx)
		},
	)
}

// InitProd initializes the database with the production suitable
// contents. It acts like InitDev, but leaves the created tables
// empty since real contents are going to arrive over the API.
func (iduc *UseCase) InitProd(ctx context.Context) error {
	return iduc.initDB(ctx, nil)
}

// RenewPasswords rotates the passwords of the admin and normal roles
// without touching the tables or their contents. The change runs in a
// single transaction using the admin role and the passwords file is
// updated if and only if that transaction commits successfully.
func (iduc *UseCase) RenewPasswords(ctx context.Context) error {
	p, err := iduc.settings.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for admin: %w", err)
	}
	defer p.Close()
	var finalizer func() error
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := iduc.schemaRepo.Tx(tx)
			finalizer, err = iduc.settings.RenewPasswords(
				ctx, q.ChangePasswords, repo.AdminRole, repo.NormalRole,
			)
			if err != nil {
				return fmt.Errorf("RenewPasswords: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("admin connection: %w", err)
	}
	if err := finalizer(); err != nil {
		return fmt.Errorf("finalizing passwords renewal: %w", err)
	}
	return nil
}

func (iduc *UseCase) initDB(
	ctx context.Context,
	seed func(ctx context.Context, q repo.SchemaTxQueryer) error,
) error {
	if err := iduc.recreateRoleAndDropTables(ctx); err != nil {
		return fmt.Errorf("preparing role and empty tables: %w", err)
	}
	p, err := iduc.settings.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for normal role: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := iduc.schemaRepo.Tx(tx)
			if err := q.CreateTables(ctx); err != nil {
				return fmt.Errorf("creating tables: %w", err)
			}
			if seed == nil {
				return nil
			}
			if err := seed(ctx, q); err != nil {
				return fmt.Errorf("seeding tables: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("normal connection: %w", err)
	}
	return nil
}

// recreateRoleAndDropTables performs those preparation steps which
// need the admin role, leaving the database with no users and posts
// tables, with a normal role which may create them, and with freshly
// renewed role passwords.
func (iduc *UseCase) recreateRoleAndDropTables(
	ctx context.Context,
) error {
	p, err := iduc.settings.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for admin: %w", err)
	}
	defer p.Close()
	var finalizer func() error
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := iduc.schemaRepo.Tx(tx)
			if err := q.DropTablesIfExist(ctx); err != nil {
				return fmt.Errorf("dropping old tables: %w", err)
			}
			if err := q.CreateRoleIfNotExists(
				ctx, repo.NormalRole,
			); err != nil {
				return fmt.Errorf("creating normal role: %w", err)
			}
			if err := q.GrantPrivileges(
				ctx, repo.NormalRole,
			); err != nil {
				return fmt.Errorf("granting normal role privs: %w", err)
			}
			finalizer, err = iduc.settings.RenewPasswords(
				ctx, q.ChangePasswords, repo.AdminRole, repo.NormalRole,
			)
			if err != nil {
				return fmt.Errorf("RenewPasswords: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("admin connection: %w", err)
	}
	if err := finalizer(); err != nil {
		return fmt.Errorf("finalizing passwords renewal: %w", err)
	}
	return nil
}
