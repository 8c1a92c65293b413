// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package healthrs realizes the service banner and database liveness
// resources. The banner allows API consumers to identify the service
// and its API version, while the liveness resource allows a load
// balancer or orchestrator to take a degraded instance out of
// rotation, e.g., when the database is unreachable or its connection
// pool is saturated beyond the configured waiting bound.
package healthrs

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wikisvc/wikiweb/pkg/core/usecase/healthuc"
)

// apiVersion reports the revision of the exposed REST API contract,
// not the service binary version.
const apiVersion = "2.0"

type resource struct {
	health *healthuc.UseCase
}

// Register instantiates a resource adapting the health use case
// instance with the relevant REST APIs including:
//  1. GET request to / in order to report the service banner,
//  2. GET request to /health in order to probe the database liveness.
func Register(r *gin.RouterGroup, health *healthuc.UseCase) {
	rs := &resource{health: health}
	r.GET("", rs.Banner)
	r.GET("health", rs.Health)
}

func (rs *resource) Banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Wiki Service API",
		"version": apiVersion,
	})
}

func (rs *resource) Health(c *gin.Context) {
	if err := rs.health.Check(c); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"detail": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}
