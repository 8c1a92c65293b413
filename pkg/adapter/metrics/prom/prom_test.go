// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package prom_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wikisvc/wikiweb/pkg/adapter/metrics/prom"
	"github.com/wikisvc/wikiweb/pkg/core/metric"
)

func scrape(t *testing.T, s *prom.Sink) string {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, "scraping metrics")
	return rec.Body.String()
}

func TestSink(t *testing.T) {
	require := require.New(t)
	s := prom.New()
	body := scrape(t, s)
	require.Contains(
		body, "users_created_total 0",
		"counters must be visible before the first increment",
	)
	require.Contains(body, "posts_created_total 0")

	s.Increment(metric.UsersCreated)
	s.Increment(metric.UsersCreated)
	s.Increment(metric.PostsCreated)
	s.Increment("sessions_opened_total")

	body = scrape(t, s)
	require.Contains(body, "users_created_total 2")
	require.Contains(body, "posts_created_total 1")
	require.Contains(body, "Total number of users created")
	require.Contains(body, "Total number of posts created")
	require.NotContains(
		body, "sessions_opened_total",
		"unknown counter names must be dropped",
	)
}

func TestSinkIsolation(t *testing.T) {
	require := require.New(t)
	s1 := prom.New()
	s2 := prom.New()
	s1.Increment(metric.UsersCreated)
	require.Contains(scrape(t, s1), "users_created_total 1")
	require.Contains(
		scrape(t, s2), "users_created_total 0",
		"independent sinks must not share counters",
	)
}
