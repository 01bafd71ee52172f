// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace is prefixed before every metric. If it is changed, it must be done
// before any metrics collector is registered.
const Namespace = "hasher"

type (
	MetricsCollector interface {
		Metrics() []Collector
	}

	CounterMetricVector interface {
		WithLabelValues(lvs ...string) Counter
		Describe(chan<- *Desc)
		Collect(chan<- Metric)
	}

	MetricsRegistererGatherer interface {
		prometheus.Gatherer
		prometheus.Registerer
	}
)

// Prometheus types aliases
type (
	Collector = prometheus.Collector
	Registry  = prometheus.Registry
	Metric    = prometheus.Metric
	Desc      = prometheus.Desc

	Counter     = prometheus.Counter
	CounterOpts = prometheus.CounterOpts
	CounterVec  = CounterMetricVector

	Gauge     = prometheus.Gauge
	GaugeOpts = prometheus.GaugeOpts

	Histogram     = prometheus.Histogram
	HistogramOpts = prometheus.HistogramOpts

	ProcessCollectorOpts = collectors.ProcessCollectorOpts
	HandlerOpts          = promhttp.HandlerOpts
)
