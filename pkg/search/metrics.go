// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package search

import (
	m "github.com/ethersphere/hasher/pkg/metrics"
)

type metrics struct {
	RunsCount      m.Counter
	FailedRuns     m.Counter
	HashesCount    m.Counter
	HitsCount      m.Counter
	ActiveWorkers  m.Gauge
	RunDuration    m.Histogram
	WorkerFailures m.Counter
}

func newMetrics() metrics {
	subsystem := "search"

	return metrics{
		RunsCount: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "runs_count",
			Help:      "Number of started CPU runs.",
		}),
		FailedRuns: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "failed_runs_count",
			Help:      "Number of CPU runs aborted by an error.",
		}),
		HashesCount: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "hashes_count",
			Help:      "Number of candidate digests computed.",
		}),
		HitsCount: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "hits_count",
			Help:      "Number of recovered targets.",
		}),
		ActiveWorkers: m.NewGauge(m.GaugeOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "active_workers",
			Help:      "Number of currently running workers.",
		}),
		RunDuration: m.NewHistogram(m.HistogramOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "run_duration_seconds",
			Help:      "Histogram of CPU run durations.",
			Buckets:   []float64{0.01, 0.1, 1, 10, 60, 600, 3600},
		}),
		WorkerFailures: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "worker_failures_count",
			Help:      "Number of workers that stopped abnormally.",
		}),
	}
}

func (c *CPU) Metrics() []m.Collector {
	return m.PrometheusCollectorsFromFields(c.metrics)
}
