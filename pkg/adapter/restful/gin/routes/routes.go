// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/wikisvc/wikiweb/pkg/adapter/config"
	"github.com/wikisvc/wikiweb/pkg/adapter/db/postgres/postsrp"
	"github.com/wikisvc/wikiweb/pkg/adapter/db/postgres/usersrp"
	"github.com/wikisvc/wikiweb/pkg/adapter/metrics/prom"
	"github.com/wikisvc/wikiweb/pkg/adapter/restful/gin/healthrs"
	"github.com/wikisvc/wikiweb/pkg/adapter/restful/gin/postsrs"
	"github.com/wikisvc/wikiweb/pkg/adapter/restful/gin/usersrs"
	"github.com/wikisvc/wikiweb/pkg/core/repo"
	"github.com/wikisvc/wikiweb/pkg/core/txn"
	"github.com/wikisvc/wikiweb/pkg/core/usecase/healthuc"
)

// Register instantiates relevant repositories and use cases based on
// the c configuration settings. The p connections pool is passed to a
// transactions coordinator, so the use case instances may acquire and
// release connections and transactions on demand. These connections
// and transactions will be passed to the repositories later in order
// to run relevant queries on them and accomplish those use cases.
// Each use case package is named like usersuc and each repository
// package is named like usersrp. Register instantiates a series of
// "resource" structs, from packages which are named like usersrs, in
// order to adapt the use cases interfaces with the REST APIs. These
// resources are registered as request handlers using the e gin-gonic
// engine instance. The sink counts committed creation operations and
// also exposes them for scraping at the /metrics endpoint.
// Possible errors will be returned after possible wrapping.
func Register(
	e *gin.Engine, p repo.Pool, sink *prom.Sink, c *config.Config,
) error {
	co := txn.New(p, sink)
	usersRepo := usersrp.New()
	postsRepo := postsrp.New()

	usersUseCase, err := c.Usecases.Users.NewUseCase(co, usersRepo)
	if err != nil {
		return fmt.Errorf("creating users use case: %w", err)
	}
	postsUseCase, err := c.Usecases.Posts.NewUseCase(co, postsRepo)
	if err != nil {
		return fmt.Errorf("creating posts use case: %w", err)
	}
	healthUseCase := healthuc.New(co)

	r := e.Group("/")
	usersrs.Register(r, usersUseCase)
	postsrs.Register(r, postsUseCase)
	healthrs.Register(r, healthUseCase)
	e.GET("/metrics", gin.WrapH(sink.Handler()))
	return nil
}
