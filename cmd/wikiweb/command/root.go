// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the wikiweb
// project. Commands are organized using the cobra library.
// The root command starts the web server itself while the "db"
// sub-command can be used for the database preparation actions.
// Three preparation actions are supported. The init-dev and init-prod
// actions for initialization of the database with the development or
// production suitable data records and the renew-passwords action for
// replacing the database role passwords with fresh random credentials.
//
//	./wikiweb [-c /path/of/main/config.yaml]         # start web server
//	./wikiweb db init-dev [-c /path/of/main/config.yaml]
//	./wikiweb db init-prod [-c /path/of/main/config.yaml]
//	./wikiweb db renew-passwords [-c /path/of/main/config.yaml]
package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wikisvc/wikiweb/pkg/adapter/config"
	"github.com/wikisvc/wikiweb/pkg/adapter/metrics/prom"
	"github.com/wikisvc/wikiweb/pkg/adapter/restful/gin/routes"
	"github.com/wikisvc/wikiweb/pkg/core/log"
	"github.com/wikisvc/wikiweb/pkg/core/repo"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "wikiweb",
	Short: "A wiki content service with users and posts REST APIs",
	Long: `A wiki content service which exposes users and posts
management REST APIs over a PostgreSQL database.
Each request acquires a pooled database connection and runs its
operations in a dedicated transaction, so concurrent requests stay
isolated and a request either commits all of its effects or none of
them. Connections are acquired with a bounded waiting time and a
saturated pool is reported instead of being waited for indefinitely.
Committed creation operations are counted and exposed for scraping
at the /metrics endpoint, while the /health endpoint reports the
database liveness as observed by a complete acquire/query/release
cycle. The gin-gonic framework serves the REST APIs and the pgx
driver (wrapped by GORM) manages the database interactions.`,
	RunE: startWebServer,
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	c.Log.Setup()
	log.Info(
		ctx, "loaded configuration settings",
		slog.String("path", cfgPath),
		slog.String("version", c.Version.String()),
		log.Valuer("acquire-timeout", c.Database.AcquireTimeout),
	)
	p, err := c.Database.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	sink := prom.New()
	e := c.Gin.NewEngine()
	if err = routes.Register(e, p, sink, c); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	if err = e.Run(); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code may
// be a boolean (zero for success and non-zero for failure) or may be
// chosen based on the error condition (if it is desired to report
// several error conditions in the CLI of this program).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
// By the way, default value is not necessarily a single path and may
// check several paths sequentially and take the highest priority one
// among the existing paths. For example, a user-specific path may take
// precedence over a file in /etc which is selected over a file in /usr.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
	}
}
