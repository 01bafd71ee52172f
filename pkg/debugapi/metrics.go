// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package debugapi

import (
	"github.com/ethersphere/hasher"
	m "github.com/ethersphere/hasher/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func newMetricsRegistry() m.MetricsRegistererGatherer {
	r := m.NewRegistry()

	// register standard metrics
	r.MustRegister(
		m.NewProcessCollector(m.ProcessCollectorOpts{
			Namespace: m.Namespace,
		}),
		m.NewGoCollector(),
		m.NewGauge(m.GaugeOpts{
			Namespace: m.Namespace,
			Name:      "info",
			Help:      "Hasher information.",
			ConstLabels: prometheus.Labels{
				"version": hasher.Version,
			},
		}),
	)

	return r
}

type metrics struct {
	RequestCount m.CounterVec
}

func newMetrics() metrics {
	return metrics{
		RequestCount: m.NewCounterVec(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: "debugapi",
			Name:      "request_count",
			Help:      "Number of debug API requests per route.",
		}, []string{"route"}),
	}
}

// route returns the metrics label of a request path.
func route(path string) string {
	switch path {
	case "/health", "/readiness", "/metrics", "/progress":
		return path
	}
	return "other"
}

// MustRegisterMetrics registers the collectors of the components.
func (s *Service) MustRegisterMetrics(components ...m.MetricsCollector) {
	if err := m.Register(s.metricsRegistry, components...); err != nil {
		panic(err)
	}
}
