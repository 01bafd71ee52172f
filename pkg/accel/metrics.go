// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package accel

import (
	m "github.com/ethersphere/hasher/pkg/metrics"
)

type metrics struct {
	RunsCount       m.Counter
	FailedRuns      m.Counter
	DispatchesCount m.Counter
	FlushesCount    m.Counter
	ReverifiedCount m.Counter
	ReverifiedHits  m.Counter
	HashesCount     m.Counter
	HitsCount       m.Counter
	FlushDuration   m.Histogram
}

func newMetrics() metrics {
	subsystem := "accel"

	return metrics{
		RunsCount: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "runs_count",
			Help:      "Number of started accelerator runs.",
		}),
		FailedRuns: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "failed_runs_count",
			Help:      "Number of accelerator runs aborted by a device error.",
		}),
		DispatchesCount: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "dispatches_count",
			Help:      "Number of enqueued kernel batches.",
		}),
		FlushesCount: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "flushes_count",
			Help:      "Number of device synchronizations.",
		}),
		ReverifiedCount: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "reverified_count",
			Help:      "Number of batch leading candidates rehashed on the host.",
		}),
		ReverifiedHits: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "reverified_hits_count",
			Help:      "Number of hits found by host rehashing.",
		}),
		HashesCount: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "hashes_count",
			Help:      "Number of candidates covered by dispatched batches.",
		}),
		HitsCount: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "hits_count",
			Help:      "Number of recovered targets.",
		}),
		FlushDuration: m.NewHistogram(m.HistogramOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "flush_duration_seconds",
			Help:      "Histogram of time spent waiting for the device.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		}),
	}
}

func (e *Executor) Metrics() []m.Collector {
	return m.PrometheusCollectorsFromFields(e.metrics)
}
