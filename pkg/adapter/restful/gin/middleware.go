// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wikisvc/wikiweb/pkg/core/log"
)

// RequestIDKey is the gin context key under which the request
// identifier string is stored by the RequestID middleware.
const RequestIDKey = "request-id"

// RequestIDHeader is the header name carrying the request identifier
// in responses. An inbound value under the same name is honored, so a
// calling service may correlate its own logs with this service logs.
const RequestIDHeader = "X-Request-Id"

// RequestID returns a middleware which tags each request with an
// identifier. The identifier is taken from the inbound RequestIDHeader
// header if present, otherwise a fresh UUID is generated. It is stored
// in the gin context under RequestIDKey and echoed in the response
// header.
func RequestID() HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger returns a middleware which writes one structured log
// record per handled request, after the rest of the handlers chain has
// completed, reporting the method, path, response status code, handling
// latency, and the request identifier (when the RequestID middleware
// runs before this one).
func RequestLogger() HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info(
			c.Request.Context(), "handled request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String(RequestIDKey, c.GetString(RequestIDKey)),
		)
	}
}
