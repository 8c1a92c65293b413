// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package initdbuc_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikisvc/wikiweb/internal/test/dbcontainer"
	"github.com/wikisvc/wikiweb/internal/test/schema"
	"github.com/wikisvc/wikiweb/pkg/adapter/config"
	"github.com/wikisvc/wikiweb/pkg/adapter/db/postgres"
	"github.com/wikisvc/wikiweb/pkg/adapter/hash/scram"
	"github.com/wikisvc/wikiweb/pkg/core/repo"
	"github.com/wikisvc/wikiweb/pkg/core/usecase/initdbuc"
)

type InitDBTestSuite struct {
	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
	Port int

	dbDir  string
	hasher *scram.Mechanism
}

func TestInitDBTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	u, err := url.Parse(pg.ConnectionString())
	if ok := assert.NoError(t, err, "parsing DB container URL"); !ok {
		return
	}
	p, err := strconv.Atoi(u.Port())
	if ok := assert.NoError(t, err, "parsing DB container port"); !ok {
		return
	}
	dbDir, err := os.MkdirTemp("", "initdbuc-db")
	if ok := assert.NoError(t, err, "creating temp db dir"); !ok {
		return
	}
	defer func() {
		err := os.RemoveAll(dbDir)
		assert.NoError(t, err, "removing temp db dir")
	}()
	idts := &InitDBTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
		Port: p,

		dbDir:  dbDir,
		hasher: scram.SHA256(),
	}
	t.Run("database preparation", idts.TestPreparations)
}

func (idts *InitDBTestSuite) TestPreparations(t *testing.T) {
	for _, tc := range []struct {
		mode  string
		visit func(t *testing.T, c *config.Config)
	}{
		{"dev", idts.TestInitDev},
		{"prod", idts.TestInitProd},
		{"renew", idts.TestRenewPasswords},
	} {
		c := idts.newSettings(t, tc.mode)
		visit := tc.visit
		t.Run(tc.mode, func(t *testing.T) {
			visit(t, c)
		})
	}
}

// TestInitDev initializes its dedicated database with the development
// suitable contents, checks the settled schema and rows, and repeats
// the initialization in order to ensure that a database which was
// initialized beforehand can be prepared from scratch again.
func (idts *InitDBTestSuite) TestInitDev(
	t *testing.T, c *config.Config,
) {
	t.Parallel()
	r := require.New(t)
	iduc := initdbuc.New(c)
	err := iduc.InitDev(idts.Ctx)
	r.NoError(err, "initializing database with dev suitable data")
	idts.verify(
		t, r, c,
		func(ctx context.Context, v *schema.Verifier, t *testing.T) {
			v.VerifySchema(ctx, t)
			v.VerifyDevData(ctx, t)
		},
	)
	err = iduc.InitDev(idts.Ctx)
	r.NoError(err, "re-initializing an already initialized database")
	idts.verify(
		t, r, c,
		func(ctx context.Context, v *schema.Verifier, t *testing.T) {
			v.VerifySchema(ctx, t)
			v.VerifyDevData(ctx, t)
		},
	)
}

// TestInitProd initializes its dedicated database with the production
// suitable contents and checks that the settled tables are empty.
func (idts *InitDBTestSuite) TestInitProd(
	t *testing.T, c *config.Config,
) {
	t.Parallel()
	r := require.New(t)
	iduc := initdbuc.New(c)
	err := iduc.InitProd(idts.Ctx)
	r.NoError(err, "initializing database with prod suitable data")
	idts.verify(
		t, r, c,
		func(ctx context.Context, v *schema.Verifier, t *testing.T) {
			v.VerifySchema(ctx, t)
			v.VerifyProdData(ctx, t)
		},
	)
}

// TestRenewPasswords rotates the role passwords of an initialized
// database, checks that the passwords file is updated and usable, and
// then simulates an interrupted renewal in order to ensure that the
// temporary passwords file can still reconnect the roles.
func (idts *InitDBTestSuite) TestRenewPasswords(
	t *testing.T, c *config.Config,
) {
	t.Parallel()
	r := require.New(t)
	iduc := initdbuc.New(c)
	err := iduc.InitProd(idts.Ctx)
	r.NoError(err, "initializing database with prod suitable data")

	pgpass := filepath.Join(c.Database.PassDir, ".pgpass")
	newPath := filepath.Join(c.Database.PassDir, ".pgpass.new")
	stale, err := os.ReadFile(pgpass)
	r.NoError(err, "reading the settled passwords file")

	err = iduc.RenewPasswords(idts.Ctx)
	r.NoError(err, "renewing role passwords")
	renewed, err := os.ReadFile(pgpass)
	r.NoError(err, "reading the renewed passwords file")
	r.NotEqual(stale, renewed, "renewal must record fresh passwords")
	_, err = os.Stat(newPath)
	r.ErrorIs(err, os.ErrNotExist, "renewal must finalize the temp file")
	idts.verify(
		t, r, c,
		func(ctx context.Context, v *schema.Verifier, t *testing.T) {
			v.VerifySchema(ctx, t)
		},
	)

	// An interrupted renewal commits the passwords change transaction,
	// but leaves the fresh passwords in the .pgpass.new file, while the
	// main .pgpass file still holds the outdated ones.
	err = os.WriteFile(newPath, renewed, 0o600)
	r.NoError(err, "writing %q file", newPath)
	err = os.WriteFile(pgpass, stale, 0o600)
	r.NoError(err, "writing %q file", pgpass)
	p, err := c.ConnectionPool(idts.Ctx, repo.NormalRole)
	r.NoError(err, "connecting after an interrupted renewal")
	defer p.Close()
	restored, err := os.ReadFile(pgpass)
	r.NoError(err, "reading the restored passwords file")
	r.Equal(renewed, restored, "fallback must move the temp file over")
	_, err = os.Stat(newPath)
	r.ErrorIs(err, os.ErrNotExist, "fallback must consume the temp file")
}

// verify connects to the database which the `c` settings describe,
// using the normal role, and runs the `check` function over a fresh
// schema verifier in order to inspect the settled contents.
func (idts *InitDBTestSuite) verify(
	t *testing.T,
	r *require.Assertions,
	c *config.Config,
	check func(ctx context.Context, v *schema.Verifier, t *testing.T),
) {
	p, err := c.ConnectionPool(idts.Ctx, repo.NormalRole)
	r.NoError(err, "creating connection pool")
	defer p.Close()
	err = p.Conn(
		idts.Ctx, func(ctx context.Context, conn repo.Conn) error {
			check(ctx, schema.New(conn), t)
			return nil
		},
	)
	r.NoError(err, "verifying database schema")
}

// newSettings creates an empty database and a superuser role which are
// dedicated to the `suffix` test case, records the role password in a
// fresh passwords directory, and returns the configuration settings
// which point at them.
func (idts *InitDBTestSuite) newSettings(
	t *testing.T, suffix string,
) *config.Config {
	a := assert.New(t)
	name := "wikidb_" + suffix
	rs := repo.Role("_" + suffix)
	u := repo.AdminRole + rs
	p := idts.randPass(a)
	err := idts.Pool.Conn(
		idts.Ctx, func(ctx context.Context, c repo.Conn) error {
			// The database and role creation DDL statements do not
			// support parameterized queries, nevertheless, the `name`
			// and `u` variables are trusted.
			if _, err := c.Exec(
				ctx, "CREATE DATABASE "+name,
			); err != nil {
				return fmt.Errorf("creating %q database: %w", name, err)
			}
			// The `p` password is hashed before being sent to DBMS, so
			// it may not leak even if it is recorded in some log file.
			hp, err := idts.hasher.Hash(p, "", 15000)
			if err != nil {
				return fmt.Errorf(
					"computing scram hash of password: %w", err,
				)
			}
			// Only a superuser may alter the password of a superuser
			// role, including its own one.
			if _, err := c.Exec(
				ctx,
				fmt.Sprintf(
					`CREATE ROLE %s
WITH SUPERUSER LOGIN PASSWORD '%s';
GRANT ALL PRIVILEGES ON DATABASE %s TO %[1]s`,
					u, hp, name,
				),
			); err != nil {
				return fmt.Errorf("creating %q role: %w", u, err)
			}
			return nil
		},
	)
	if !a.NoError(err, "main connection error") {
		a.FailNow("failed to get a connection with superuser role")
	}
	d := filepath.Join(idts.dbDir, name)
	err = os.Mkdir(d, 0o700)
	if !a.NoError(err, "creating %q dir", d) {
		a.FailNow("cannot create top database dir")
	}
	line := fmt.Sprintf(
		"127.0.0.1:%d:%s:%s:%s\n", idts.Port, name, u, p,
	)
	pgpass := filepath.Join(d, ".pgpass")
	err = os.WriteFile(pgpass, []byte(line), 0o600)
	if !a.NoError(err, "writing %q file", pgpass) {
		a.FailNow("cannot write .pgpass file")
	}
	c := &config.Config{
		Version: config.Version,
		Database: config.Database{
			Host:       "127.0.0.1",
			Port:       idts.Port,
			Name:       name,
			PassDir:    d,
			RoleSuffix: rs,
		},
	}
	err = c.ValidateAndNormalize()
	a.NoError(err, "validating *config.Config instance")
	return c
}

func (idts *InitDBTestSuite) randPass(
	a *assert.Assertions,
) string {
	b := make([]byte, 8)
	_, err := rand.Read(b)
	if !a.NoError(err, "generating a random password") {
		a.FailNow("cannot read random bytes")
	}
	return fmt.Sprintf("%x", b)
}
