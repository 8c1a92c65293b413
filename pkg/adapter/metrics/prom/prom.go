// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package prom realizes the core metric.Sink interface using the
// Prometheus client library. Counters are pre-registered in a private
// registry (not the process-global default one), so independent Sink
// instances may coexist, e.g., in parallel test cases. The Handler
// method exposes the registry contents in the Prometheus text
// exposition format for the /metrics route.
package prom

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wikisvc/wikiweb/pkg/core/metric"
)

// helpTexts maps each known counter name to its exposition help line.
var helpTexts = map[string]string{
	metric.UsersCreated: "Total number of users created",
	metric.PostsCreated: "Total number of posts created",
}

// Sink maintains one Prometheus counter per known counter name, as
// enumerated by the metric.Names function. All counters are collected
// by a private registry. The zero Sink is not usable; instances must
// be obtained from New.
type Sink struct {
	reg      *prometheus.Registry
	counters map[string]prometheus.Counter
}

// New instantiates a Sink with a fresh registry and one pre-registered
// counter for each known counter name. Registration cannot conflict
// because the registry is private and the names set contains no
// duplicates.
func New() *Sink {
	s := &Sink{
		reg:      prometheus.NewRegistry(),
		counters: make(map[string]prometheus.Counter),
	}
	for _, name := range metric.Names() {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Name: name,
			Help: helpTexts[name],
		})
		s.reg.MustRegister(c)
		s.counters[name] = c
	}
	return s
}

// Increment adds one to the named counter. Unknown names are dropped
// silently, keeping the no-fail contract of the metric.Sink interface.
// Prometheus counters are safe for concurrent use, hence, so is this
// method.
func (s *Sink) Increment(name string) {
	if c, ok := s.counters[name]; ok {
		c.Inc()
	}
}

// Handler returns an HTTP handler which serves the current counter
// values in the Prometheus text exposition format.
func (s *Sink) Handler() http.Handler {
	return promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})
}
