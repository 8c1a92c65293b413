// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the wikiweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// The parsed and validated configurations should be passed to their
// ultimate components as a series of individual params (for the
// mandatory items) and a series of functional options (for the
// optional items), so they may be accumulated and validated in another
// (possibly non-exported) config struct (or directly in the relevant
// end-component such as a UseCase instance). This design decision
// causes a bit of redundancy in favor of a defensive solution.
package config

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wikisvc/wikiweb/pkg/adapter/config/settings"
	"github.com/wikisvc/wikiweb/pkg/adapter/db/postgres"
	"github.com/wikisvc/wikiweb/pkg/adapter/db/postgres/schemarp"
	"github.com/wikisvc/wikiweb/pkg/adapter/hash/scram"
	"github.com/wikisvc/wikiweb/pkg/adapter/restful/gin"
	"github.com/wikisvc/wikiweb/pkg/core/cerr"
	"github.com/wikisvc/wikiweb/pkg/core/log"
	"github.com/wikisvc/wikiweb/pkg/core/model"
	"github.com/wikisvc/wikiweb/pkg/core/repo"
	scrami "github.com/wikisvc/wikiweb/pkg/core/scram"
	"github.com/wikisvc/wikiweb/pkg/core/txn"
	"github.com/wikisvc/wikiweb/pkg/core/usecase/initdbuc"
	"github.com/wikisvc/wikiweb/pkg/core/usecase/postsuc"
	"github.com/wikisvc/wikiweb/pkg/core/usecase/usersuc"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
// A config file with a mismatching major version or a newer minor
// version is rejected by the Load function; extra fields from the
// same major and an equal or older minor version are tolerated.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of Config struct.
var Version = model.SemVer{Major, Minor, Patch}

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined locally, not models or structs which are defined in lower
// layers, so the configuration format can be kept intact while other
// layers can change freely.
type Config struct {
	// Version is the semantic version of the config file format, as
	// stamped in the file itself. It is validated against the Version
	// variable of this package.
	Version model.SemVer

	Database Database // PostgreSQL database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Log      Log      // Logging settings
	Usecases Usecases // Configuration settings for supported use cases
}

// Load reads the file at the given path, parses it as a YAML config
// file, and validates and normalizes its settings. Given path must
// belong to a configuration file which conforms with the latest known
// configuration settings format.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	return c, nil
}

// Parse unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. Thereafter, loaded Config will be validated and normalized
// in order to ensure that provided settings are acceptable (for
// example the major version which is reported by data settings must
// match with number 1 which is the major version of this package).
//
// If some settings should be overridden by environment variables,
// this function is the proper place for that replacement, so all
// consumers observe the same effective settings.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if v := c.Version; v[0] != Major {
		return &cerr.MismatchingSemVerError{Version, v}
	} else if v[1] > Minor {
		return fmt.Errorf(
			"unsupported minor version: v%s is newer than v%s",
			v.String(), Version.String(),
		)
	}
	settings.Nil2Zero(&c.Gin.Logger)
	settings.Nil2Zero(&c.Gin.Recovery)
	if err := c.Log.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating log settings: %w", err)
	}
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	if err := c.Usecases.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating use cases settings: %w", err)
	}
	return nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
// The returned pool is typed as the interface which the initdbuc
// package expects, so a *Config instance can serve as the Settings
// of the database preparation use case directly.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (initdbuc.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("database settings: %w", err)
	}
	return p, nil
}

// NewSchemaRepo instantiates a fresh Schema repository.
// Role names may be optionally suffixed based on the settings and
// in that case, repo.Role role names which are passed to the
// ConnectionPool method or RenewPasswords will be suffixed
// automatically. Since the Schema repository has methods for
// creation of roles or asking to grant specific privileges to
// them, it needs to obtain the same role name suffix.
func (c *Config) NewSchemaRepo() repo.Schema {
	return c.Database.NewSchemaRepo()
}

// RenewPasswords generates new secure passwords for the given roles
// and after recording them in a temporary file, will use the change
// function in order to update the passwords of those roles in the
// database too. The change function argument should perform the
// update operation in a transaction which may or may not be committed
// when RenewPasswords returns. In case of a successful commitment,
// the temporary passwords file should be moved over the main passwords
// file. The temporary passwords file is named as .pgpass.new and the
// main passwords file is named as .pgpass. Keeping the .pgpass file
// (in the `c.Database.PassDir`) up-to-date, makes it possible to use
// the ConnectionPool method again (both if the passwords are or are
// not updated successfully). This final file movement can be performed
// using the returned finalizer function.
func (c *Config) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	return c.Database.RenewPasswords(ctx, change, roles...)
}

// Database contains the database related configuration settings.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like wikidb
	PassDir string `yaml:"pass-dir"` // path of the passwords dir

	// RoleSuffix specifies a possibly empty suffix for the database
	// role names. Normally, repo.AdminRole and repo.NormalRole roles
	// are used. In the parallel test cases, it is required to create
	// multiple non-colliding roles in the same database cluster and
	// so having a unique (per test) role suffix helps with parallelism.
	RoleSuffix repo.Role `yaml:"role-suffix,omitempty"`

	// AuthMethod specifies the database authentication method name.
	// This method indicates how passwords should be hashed and stored
	// in the database, so they may be used by an authentication
	// operation successfully.
	// Currently, only scram-sha-1 and scram-sha-256 methods are
	// supported. The scram-sha-256 is the default value.
	AuthMethod string `yaml:"auth-method,omitempty"`

	// MaxConns bounds the number of concurrently open connections in
	// a pool which is created by the ConnectionPool method. A nil
	// value leaves the bound at its adapter-level default.
	MaxConns *int `yaml:"max-conns,omitempty"`

	// AcquireTimeout bounds the time which a session may spend waiting
	// for a free connection slot when the pool is saturated, before
	// the operation is failed with a resource exhaustion error. A nil
	// value leaves the timeout at its adapter-level default.
	AcquireTimeout *settings.Duration `yaml:"acquire-timeout,omitempty"`

	// ConnMaxLifetime bounds the reuse period of pooled connections,
	// so they are redialed occasionally (e.g., after a failover). A
	// nil value keeps connections indefinitely.
	ConnMaxLifetime *settings.Duration `yaml:"conn-max-lifetime,omitempty"`

	// hasher is instantiated based on the AuthMethod and is used by
	// the NewSchemaRepo method, so Schema repo instances may hash
	// passwords properly (as expected by the DBMS).
	hasher scrami.Hasher `yaml:"-"`
}

// ValidateAndNormalize validates the database settings and returns an
// error if they were not acceptable. It can also modify settings in
// order to normalize them or replace some zero values with their
// expected default values (if any). So, it takes a pointer receiver
// instead of a non-reference receiver (in contrast to other methods).
func (d *Database) ValidateAndNormalize() error {
	switch am := d.AuthMethod; am {
	case "scram-sha-1":
		d.hasher = scram.SHA1()
	case "":
		d.AuthMethod = "scram-sha-256"
		fallthrough
	case "scram-sha-256":
		d.hasher = scram.SHA256()
	default:
		return fmt.Errorf(
			"unsupported database authentication method: %q", am,
		)
	}
	one := 1
	if err := settings.VerifyRange(&d.MaxConns, &one, nil); err != nil {
		return fmt.Errorf("verifying max-conns range: %w", err)
	}
	minWait := settings.Duration(time.Millisecond)
	if err := settings.VerifyRange(
		&d.AcquireTimeout, &minWait, nil,
	); err != nil {
		return fmt.Errorf("verifying acquire-timeout range: %w", err)
	}
	minLife := settings.Duration(time.Second)
	if err := settings.VerifyRange(
		&d.ConnMaxLifetime, &minLife, nil,
	); err != nil {
		return fmt.Errorf("verifying conn-max-lifetime range: %w", err)
	}
	return nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings.
// Initially, the .pgpass file in the d.PassDir folder is checked
// which should conform with the pgpass format with lines like this:
//
//	host:port:dbname:role:password
//
// If a database connection could be established, created pool and nil
// error will be returned. Otherwise, passwords might have been updated
// during a previous incomplete renewal operation. So the .pgpass.new
// file in the same d.PassDir folder is checked too. If a connection
// could be established successfully, the .pgpass.new will be moved to
// the .pgpass file, so the .pgpass.new file may be overwritten safely
// by the subsequent renewal operations.
//
// The `d.RoleSuffix` will be appended to the given `r` role name too.
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (*postgres.Pool, error) {
	path := filepath.Join(d.PassDir, ".pgpass")
	u, err := d.ConnectionURL(r, path)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", path, err)
	}
	p, err := postgres.NewPool(ctx, u, d.poolOptions()...)
	if err == nil {
		return p, nil
	}
	log.Warn(
		ctx, "failed to connect with the main pass-file",
		slog.String("path", path), log.Err("error", err),
	)
	newPath := filepath.Join(d.PassDir, ".pgpass.new")
	u, err = d.ConnectionURL(r, newPath)
	if err != nil {
		return nil, fmt.Errorf("using %q pass-file: %w", newPath, err)
	}
	p, err = postgres.NewPool(ctx, u, d.poolOptions()...)
	if err != nil {
		return nil, fmt.Errorf("can use neither pass-file: %w", err)
	}
	if err = os.Rename(newPath, path); err != nil {
		p.Close()
		return nil, fmt.Errorf("os.Rename: %w", err)
	}
	return p, nil
}

// poolOptions converts the optional pool tuning settings into the
// corresponding postgres adapter options, skipping unset values.
func (d Database) poolOptions() []postgres.Option {
	opts := make([]postgres.Option, 0, 3)
	if d.MaxConns != nil {
		opts = append(opts, postgres.WithMaxConns(*d.MaxConns))
	}
	if d.AcquireTimeout != nil {
		opts = append(opts, postgres.WithAcquireTimeout(
			time.Duration(*d.AcquireTimeout),
		))
	}
	if d.ConnMaxLifetime != nil {
		opts = append(opts, postgres.WithConnMaxLifetime(
			time.Duration(*d.ConnMaxLifetime),
		))
	}
	return opts
}

// ConnectionURL returns the database connection URL embedding the host,
// port, role name, database name, and password value. These items are
// directly taken from the `d` settings, but the role name which is
// specified by the `r` argument and the password value which is read
// from the given `path` file. Returned URL has the postgresql scheme.
// The `path` file may contain empty or `#`-commented lines in addition
// to the password specifying lines which should conform with the pgpass
// files format with lines like this:
//
//	host:port:dbname:role:password
//
// If the `path` file could be read and a password for the asked `r`
// role could be identified, a URL and a nil error will be returned.
// Otherwise, returned string will be empty and error will describe the
// wrapped error condition.
func (d Database) ConnectionURL(
	r repo.Role, path string,
) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	r = r + d.RoleSuffix
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, r)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", fmt.Errorf("no matching password line")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// NewSchemaRepo instantiates a fresh Schema repository.
// Role names may be optionally suffixed based on the settings and
// in that case, repo.Role role names which are passed to the
// ConnectionPool method or RenewPasswords will be suffixed
// automatically. Since the Schema repository has methods for
// creation of roles or asking to grant specific privileges to
// them, it needs to obtain the same role name suffix (as stored
// in the current Database instance).
//
// The expected passwords hashing format of the target database must be
// configured in the `d.AuthMethod` field. Also, ValidateAndNormalize
// method is expected to be called beforehand, so it can create a hasher
// instance based on it. That hasher will be included in the returned
// Schema repo, so it may hash database role passwords properly.
func (d Database) NewSchemaRepo() repo.Schema {
	return schemarp.New(d.RoleSuffix, d.hasher)
}

// RenewPasswords generates new secure passwords for the given roles
// and after recording them in a temporary file (i.e., .pgpass.new file
// in the `d.PassDir` directory), will use the `change` function in
// order to update the passwords of those `roles` in the database too.
// The `change` function argument should perform the update operation
// in a transaction which may or may not be committed when the
// RenewPasswords function returns. In case of a successful commitment,
// the temporary passwords file should be moved over the main passwords
// file (i.e., .pgpass file in the `d.PassDir` directory). Keeping the
// .pgpass file up-to-date, makes it possible to use ConnectionPool
// method again (both if the passwords are or are not updated
// successfully). This final file movement can be performed using the
// returned finalizer function.
//
// The `d.RoleSuffix` will be appended to the given role names too.
// The `change` function must add the same suffix to `roles` roles names
// in order to remain consistent with the in-file recorded information.
func (d Database) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	passwords := make([]string, len(roles))
	b := make([]byte, 16) // 128 bits
	enc := base64.RawStdEncoding
	p := make([]byte, enc.EncodedLen(len(b))) // for each password
	prfx := fmt.Sprintf("%s:%d:%s", d.Host, d.Port, d.Name)
	lines := make([]string, len(passwords))
	for i, r := range roles {
		if _, err = rand.Read(b); err != nil {
			return nil, fmt.Errorf("rand.Read for i=%d: %w", i, err)
		}
		enc.Encode(p, b)
		passwords[i] = string(p)
		r = r + d.RoleSuffix
		lines[i] = fmt.Sprintf("%s:%s:%s\n", prfx, r, passwords[i])
	}
	orgPath := filepath.Join(d.PassDir, ".pgpass")
	newPath := filepath.Join(d.PassDir, ".pgpass.new")
	finalizer = func() error {
		return os.Rename(newPath, orgPath)
	}
	err = os.WriteFile(newPath, []byte(strings.Join(lines, "")), 0o600)
	if err != nil {
		return nil, fmt.Errorf("writing %q file: %w", newPath, err)
	}
	if err = change(ctx, roles, passwords); err != nil {
		return nil, fmt.Errorf("passwords change callback: %w", err)
	}
	return finalizer, nil
}

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized. Uninitialized fields are filled with
// their default values by the ValidateAndNormalize method.
type Gin struct {
	Logger   *bool // Whether to register the request logger middleware
	Recovery *bool // Whether to register the gin.Recovery() middleware
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. The request identification middleware is always
// registered (its cost is negligible and the request logger and error
// reports depend on it), while the request logger and the recovery
// middlewares are controlled by the `g` fields.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 3)
	middlewares = append(middlewares, gin.RequestID())
	if *g.Logger {
		middlewares = append(middlewares, gin.RequestLogger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

// Log contains the logging related configuration settings.
type Log struct {
	// Level is the minimum severity of the log records which should
	// be written out, as one of the debug, info, warn, or error
	// values. An empty value is normalized to info.
	Level string `yaml:",omitempty"`

	// level is the parsed form of Level, filled by the
	// ValidateAndNormalize method.
	level slog.Level `yaml:"-"`
}

// ValidateAndNormalize validates the logging settings and returns an
// error if they were not acceptable, normalizing the empty level to
// the default info value.
func (l *Log) ValidateAndNormalize() error {
	switch l.Level {
	case "debug":
		l.level = slog.LevelDebug
	case "":
		l.Level = "info"
		fallthrough
	case "info":
		l.level = slog.LevelInfo
	case "warn":
		l.level = slog.LevelWarn
	case "error":
		l.level = slog.LevelError
	default:
		return fmt.Errorf("unsupported log level: %q", l.Level)
	}
	return nil
}

// Setup replaces the process-wide default logger based on the `l`
// settings. The ValidateAndNormalize method must have been called
// beforehand, as it parses the textual level.
func (l Log) Setup() {
	log.Setup(l.level)
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Users Users // users use cases related settings
	Posts Posts // posts use cases related settings
}

// ValidateAndNormalize validates the use cases settings and returns an
// error if they were not acceptable.
func (u *Usecases) ValidateAndNormalize() error {
	if err := u.Users.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("users: %w", err)
	}
	if err := u.Posts.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("posts: %w", err)
	}
	return nil
}

// Users contains the configuration settings for the users use cases.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized. A nil value indicates that the setting
// is left uninitialized, so the use cases layer may select a default
// value.
type Users struct {
	// DefaultPageSize is the number of rows which a listing reports
	// when no explicit limit is requested.
	DefaultPageSize *int `yaml:"default-page-size,omitempty"`
	// MaxPageSize is the inclusive maximum number of rows which a
	// single listing may report, clamping larger requested limits.
	MaxPageSize *int `yaml:"max-page-size,omitempty"`
}

// ValidateAndNormalize validates the users use cases settings and
// returns an error if they were not acceptable.
func (u *Users) ValidateAndNormalize() error {
	one := 1
	if err := settings.VerifyRange(&u.MaxPageSize, &one, nil); err != nil {
		return fmt.Errorf("verifying max-page-size range: %w", err)
	}
	if err := settings.VerifyRange(
		&u.DefaultPageSize, &one, u.MaxPageSize,
	); err != nil {
		return fmt.Errorf("verifying default-page-size range: %w", err)
	}
	return nil
}

// NewUseCase instantiates a new users use case based on the settings
// in the `u` struct.
func (u Users) NewUseCase(
	co *txn.Coordinator, r repo.Users,
) (*usersuc.UseCase, error) {
	opts := make([]usersuc.Option, 0, 2)
	if u.DefaultPageSize != nil {
		opts = append(opts, usersuc.WithDefaultPageSize(*u.DefaultPageSize))
	}
	if u.MaxPageSize != nil {
		opts = append(opts, usersuc.WithMaxPageSize(*u.MaxPageSize))
	}
	return usersuc.New(co, r, opts...)
}

// Posts contains the configuration settings for the posts use cases.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized. A nil value indicates that the setting
// is left uninitialized, so the use cases layer may select a default
// value.
type Posts struct {
	// DefaultPageSize is the number of rows which a listing reports
	// when no explicit limit is requested.
	DefaultPageSize *int `yaml:"default-page-size,omitempty"`
	// MaxPageSize is the inclusive maximum number of rows which a
	// single listing may report, clamping larger requested limits.
	MaxPageSize *int `yaml:"max-page-size,omitempty"`
}

// ValidateAndNormalize validates the posts use cases settings and
// returns an error if they were not acceptable.
func (p *Posts) ValidateAndNormalize() error {
	one := 1
	if err := settings.VerifyRange(&p.MaxPageSize, &one, nil); err != nil {
		return fmt.Errorf("verifying max-page-size range: %w", err)
	}
	if err := settings.VerifyRange(
		&p.DefaultPageSize, &one, p.MaxPageSize,
	); err != nil {
		return fmt.Errorf("verifying default-page-size range: %w", err)
	}
	return nil
}

// NewUseCase instantiates a new posts use case based on the settings
// in the `p` struct.
func (p Posts) NewUseCase(
	co *txn.Coordinator, r repo.Posts,
) (*postsuc.UseCase, error) {
	opts := make([]postsuc.Option, 0, 2)
	if p.DefaultPageSize != nil {
		opts = append(opts, postsuc.WithDefaultPageSize(*p.DefaultPageSize))
	}
	if p.MaxPageSize != nil {
		opts = append(opts, postsuc.WithMaxPageSize(*p.MaxPageSize))
	}
	return postsuc.New(co, r, opts...)
}

// Marshalled struct contains a field for each one of the Config struct
// fields. The field names may be different for simplicity, but the
// yaml tag of fields are chosen to have consistent names after the
// serialization operation. The types of those fields are the same if
// their default serialization format is acceptable, otherwise, they
// will be serialized manually using the Marshal method and their
// target primitive types will be used in the Marshalled struct.
type Marshalled struct {
	Version  string
	Database struct {
		Host            string
		Port            int
		Name            string
		PassDir         string  `yaml:"pass-dir"`
		RoleSuffix      string  `yaml:"role-suffix,omitempty"`
		AuthMethod      string  `yaml:"auth-method,omitempty"`
		MaxConns        *int    `yaml:"max-conns,omitempty"`
		AcquireTimeout  *string `yaml:"acquire-timeout,omitempty"`
		ConnMaxLifetime *string `yaml:"conn-max-lifetime,omitempty"`
	}
	Gin Gin
	Log struct {
		Level string `yaml:",omitempty"`
	}
	Usecases struct {
		Users Users
		Posts Posts
	}
}

// MarshalYAML computes an instance of the Marshalled struct, as created
// by the Marshal method, so it may be marshalled instead of the `c`
// Config instance. This replacement makes it possible to substitute
// specific settings such as the semantic version and time durations
// with their string representations and have control on the final
// serialization result.
func (c *Config) MarshalYAML() (interface{}, error) {
	return c.Marshal(), nil
}

// Marshal creates an instance of the Marshalled struct and fills it
// with the `c` Config instance contents. The Marshalled and Config
// fields do correspond with each other with one difference. Any field
// which requires a specific serialization logic (and its default
// encoding logic into YAML format is not suitable) is replaced by a
// primitive data type, so it can contain the properly serialized
// version of that setting.
func (c *Config) Marshal() *Marshalled {
	m := &Marshalled{}
	m.Version = c.Version.Marshal()
	m.Database.Host = c.Database.Host
	m.Database.Port = c.Database.Port
	m.Database.Name = c.Database.Name
	m.Database.PassDir = c.Database.PassDir
	m.Database.RoleSuffix = string(c.Database.RoleSuffix)
	m.Database.AuthMethod = c.Database.AuthMethod
	m.Database.MaxConns = c.Database.MaxConns
	m.Database.AcquireTimeout = c.Database.AcquireTimeout.Marshal()
	m.Database.ConnMaxLifetime = c.Database.ConnMaxLifetime.Marshal()
	m.Gin = c.Gin
	m.Log.Level = c.Log.Level
	m.Usecases.Users = c.Usecases.Users
	m.Usecases.Posts = c.Usecases.Posts
	return m
}
