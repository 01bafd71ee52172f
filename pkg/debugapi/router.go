// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package debugapi

import (
	"net/http"

	"github.com/ethersphere/hasher/pkg/jsonhttp"
	m "github.com/ethersphere/hasher/pkg/metrics"
	"github.com/ethersphere/hasher/pkg/tracing"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"resenje.org/web"
)

// newBasicRouter constructs the routes that are served while the run is
// loaded:
// - /health
// - /metrics
// - /progress, unavailable until the run is configured
func (s *Service) newBasicRouter() *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(jsonhttp.NotFoundHandler)

	router.Path("/metrics").Handler(web.ChainHandlers(
		handlers.CompressHandler,
		web.FinalHandler(m.InstrumentMetricHandler(
			s.metricsRegistry,
			m.HandlerFor(s.metricsRegistry, m.HandlerOpts{}),
		)),
	))

	router.Handle("/health", jsonhttp.MethodHandler{
		"GET": http.HandlerFunc(statusHandler),
	})

	router.Handle("/progress", web.ChainHandlers(
		s.traceHandler,
		web.FinalHandler(jsonhttp.MethodHandler{
			"GET": http.HandlerFunc(s.progressHandler),
		}),
	))

	return router
}

// newRouter constructs the complete set of routes once the run is
// configured and exposes /readiness to signal it.
func (s *Service) newRouter() *mux.Router {
	router := s.newBasicRouter()

	router.Handle("/readiness", jsonhttp.MethodHandler{
		"GET": http.HandlerFunc(statusHandler),
	})

	return router
}

func (s *Service) setRouter(router http.Handler) {
	h := web.ChainHandlers(
		s.pageviewMetricsHandler,
		web.FinalHandler(router),
	)

	s.handlerMu.Lock()
	defer s.handlerMu.Unlock()

	s.handler = h
}

// traceHandler continues the trace of the caller, if the request carries
// one, and logs the request with its trace id.
func (s *Service) traceHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := s.tracer.WithContextFromHTTPHeaders(r.Context(), r.Header)
		if err == nil {
			r = r.WithContext(ctx)
		}
		if s.logger != nil {
			tracing.NewLoggerWithTraceID(r.Context(), s.logger).Debugf("debug api: %s %s", r.Method, r.URL.Path)
		}
		h.ServeHTTP(w, r)
	})
}

// pageviewMetricsHandler counts requests per route.
func (s *Service) pageviewMetricsHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metrics.RequestCount.WithLabelValues(route(r.URL.Path)).Inc()
		h.ServeHTTP(w, r)
	})
}
