// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"fmt"

	"github.com/wikisvc/wikiweb/pkg/adapter/db/postgres"
	"github.com/wikisvc/wikiweb/pkg/core/repo"
	"github.com/wikisvc/wikiweb/pkg/core/scram"
)

// DropTablesIfExist drops the posts and users tables if they exist,
// in that order, so the foreign key from posts to users cannot block
// the operation. If the tables do not exist, no change happens and a
// nil error will be returned.
func DropTablesIfExist[Q postgres.Queryer](
	ctx context.Context, q Q,
) error {
	if _, err := q.Exec(
		ctx, `DROP TABLE IF EXISTS posts; DROP TABLE IF EXISTS users`,
	); err != nil {
		return fmt.Errorf("dropping tables: %w", err)
	}
	return nil
}

// CreateRoleIfNotExists creates the `role` role if it does not
// exist right now. Although the login option is enabled for the
// created role, but no specific password will be set for it.
// The ChangePasswords function may be used for setting a password if
// desired. Otherwise, that user may not login effectively (but
// using the trust or local identity methods).
//
// The `role` role name will be suffixed by `roleSuffix` if it is not
// empty. This is useful to have distinct role names if repo.Role
// predefined constants are not desirable.
func CreateRoleIfNotExists[Q postgres.Queryer](
	ctx context.Context, q Q, roleSuffix repo.Role, role repo.Role,
) error {
	role += roleSuffix
	// The CREATE ROLE statement supports no IF NOT EXISTS option,
	// hence, a catalog lookup guards it in one DO block. Role names
	// do not support parameterized queries, nevertheless, the `role`
	// variable is trusted.
	if _, err := q.Exec(ctx, fmt.Sprintf(`DO $$
BEGIN
	IF NOT EXISTS (
		SELECT FROM pg_catalog.pg_roles WHERE rolname = '%[1]s'
	) THEN
		CREATE ROLE %[1]s WITH LOGIN;
	END IF;
END
$$`, role)); err != nil {
		return fmt.Errorf("creating %q role: %w", role, err)
	}
	return nil
}

// GrantPrivileges grants ALL privileges on the public schema to the
// `role` role, so it may create or access tables in that schema and
// run relevant queries.
//
// The `role` role name will be suffixed by `roleSuffix` if it is not
// empty. This is useful to have distinct role names if repo.Role
// predefined constants are not desirable.
func GrantPrivileges[Q postgres.Queryer](
	ctx context.Context, q Q, roleSuffix repo.Role, role repo.Role,
) error {
	role += roleSuffix
	// the `role` variable is trusted
	if _, err := q.Exec(ctx, fmt.Sprintf(
		`GRANT ALL PRIVILEGES ON SCHEMA public TO %s`, role,
	)); err != nil {
		return fmt.Errorf("granting to %q role: %w", role, err)
	}
	return nil
}

// ChangePasswords updates the passwords of the given roles in the
// current transaction. The roles and passwords slices must have the
// same number of entries, so they can be used in pair.
//
// The `roles` role names will be suffixed by `roleSuffix` if it is
// not empty. The `hasher` will be used for hashing of the `passwords`
// before sending them to the DBMS (so they may not leak in plaintext
// even if the DDL statements are logged somewhere). This SCRAM hasher
// format must conform with the DBMS expected format.
func ChangePasswords(
	ctx context.Context,
	tx *postgres.Tx,
	roleSuffix repo.Role,
	hasher scram.Hasher,
	roles []repo.Role,
	passwords []string,
) error {
	if nr, np := len(roles), len(passwords); nr != np {
		return fmt.Errorf(
			"roles (%d) and passwords (%d) counts mismatch", nr, np,
		)
	}
	for i, r := range roles {
		r += roleSuffix
		// RFC 7677 recommends 15000 iterations or more
		h, err := hasher.Hash(passwords[i], "", 15000)
		if err != nil {
			return fmt.Errorf("hashing %q role password: %w", r, err)
		}
		// the `r` role name and `h` hash are trusted
		if _, err := tx.Exec(ctx, fmt.Sprintf(
			`ALTER ROLE %s WITH LOGIN PASSWORD '%s'`, r, h,
		)); err != nil {
			return fmt.Errorf("altering %q role: %w", r, err)
		}
	}
	return nil
}

// CreateTables creates the users and posts tables with their
// integrity constraints: textual attributes must be non-empty where
// the serving operations require them and each post must name an
// existing user as its author. The executing role becomes the owner
// of the created tables. The tables must not exist beforehand,
// otherwise, an error will be returned.
func CreateTables(ctx context.Context, tx *postgres.Tx) error {
	if _, err := tx.Exec(ctx, `CREATE TABLE users (
	id BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL CHECK (username <> ''),
	email TEXT NOT NULL CHECK (email <> '')
);
CREATE TABLE posts (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL CHECK (title <> ''),
	content TEXT NOT NULL,
	author_id BIGINT NOT NULL REFERENCES users (id)
);
CREATE INDEX posts_author_id_idx ON posts (author_id)`); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// SeedDevRows fills the users and posts tables with the development
// suitable initial rows. It expects freshly created empty tables, so
// the author identifiers which the posts rows mention are the ones
// which the users rows have taken from their identifier sequence.
func SeedDevRows(ctx context.Context, tx *postgres.Tx) error {
	if _, err := tx.Exec(ctx, `INSERT INTO users (username, email)
VALUES ('alice', 'alice@example.com'),
	('bob', 'bob@example.com');
INSERT INTO posts (title, content, author_id)
VALUES ('Welcome', 'First steps with the wiki service.', 1),
	('Editing basics', 'How to draft and revise posts.', 2)`); err != nil {
		return fmt.Errorf("seeding rows: %w", err)
	}
	return nil
}
