// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package debugapi exposes the debug API used to observe a running
// search: health, metrics and progress.
package debugapi

import (
	"net/http"
	"sync"

	"github.com/ethersphere/hasher/pkg/logging"
	m "github.com/ethersphere/hasher/pkg/metrics"
	"github.com/ethersphere/hasher/pkg/report"
	"github.com/ethersphere/hasher/pkg/tracing"
)

// Progresser reports the state of the current run.
type Progresser interface {
	Status() report.Status
}

// Service implements http.Handler interface to be used in HTTP server.
type Service struct {
	logger          logging.Logger
	tracer          *tracing.Tracer
	metricsRegistry m.MetricsRegistererGatherer
	progress        Progresser
	metrics         metrics
	// handler is changed in the Configure method
	handler   http.Handler
	handlerMu sync.RWMutex
}

// New creates a new Debug API Service with only basic routes enabled, /health,
// /metrics and /progress. They are available while the run inputs are still
// being loaded.
func New(logger logging.Logger, tracer *tracing.Tracer) *Service {
	s := &Service{
		logger:          logger,
		tracer:          tracer,
		metricsRegistry: newMetricsRegistry(),
		metrics:         newMetrics(),
	}
	s.metricsRegistry.MustRegister(m.PrometheusCollectorsFromFields(s.metrics)...)
	s.setRouter(s.newBasicRouter())
	return s
}

// Configure injects the run progress and exposes the routes that depend on
// it. It is intended and safe to call this method only once.
func (s *Service) Configure(progress Progresser) {
	s.handlerMu.Lock()
	s.progress = progress
	s.handlerMu.Unlock()

	s.setRouter(s.newRouter())
}

// ServeHTTP implements http.Handler interface.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// protect handler as it is changed by the Configure method
	s.handlerMu.RLock()
	h := s.handler
	s.handlerMu.RUnlock()

	h.ServeHTTP(w, r)
}
