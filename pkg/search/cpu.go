// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package search

import (
	"context"
	"fmt"
	"time"

	"github.com/ethersphere/hasher/pkg/logging"
	"github.com/ethersphere/hasher/pkg/tracing"
	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// BackendCPU names the CPU backend in summaries.
const BackendCPU = "cpu"

// CPU runs a search on goroutines, one per span.
type CPU struct {
	logger  logging.Logger
	tracer  *tracing.Tracer
	metrics metrics
}

var _ Executor = (*CPU)(nil)

// NewCPU returns the CPU backend. The tracer may be nil.
func NewCPU(logger logging.Logger, tracer *tracing.Tracer) *CPU {
	return &CPU{
		logger:  logger,
		tracer:  tracer,
		metrics: newMetrics(),
	}
}

// Execute runs r to the end, to early termination or until ctx is done.
// A cancelled run still returns the summary of the work done so far.
func (c *CPU) Execute(ctx context.Context, r *Run, ch Channel) (*Summary, error) {
	if ch == nil {
		ch = NopChannel{}
	}
	count := r.Keyspace.Count()
	workers, err := WorkerCount(r.Workers, count)
	if err != nil {
		return nil, err
	}
	spans := Partition(workers, count)
	id := uuid.NewString()

	span, logger, ctx := c.tracer.StartSpanFromContext(ctx, "search-cpu", c.logger, opentracing.Tag{Key: "run", Value: id})
	defer span.Finish()
	logger = logger.WithFields(logrus.Fields{"run": id, "backend": BackendCPU})
	logger.Debugf("search: %v, %d targets, %d workers", r.Keyspace, r.Index.Len(), workers)

	c.metrics.RunsCount.Inc()
	start := time.Now()

	w := &worker{
		run:       r,
		ch:        ch,
		remaining: atomic.NewInt64(int64(r.Index.Len())),
		single:    r.Index.Len() == 1,
	}
	tallies := make([]Tally, len(spans))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range spans {
		i, s := i, s
		g.Go(func() (err error) {
			c.metrics.ActiveWorkers.Inc()
			defer c.metrics.ActiveWorkers.Dec()
			defer func() {
				if v := recover(); v != nil {
					c.metrics.WorkerFailures.Inc()
					err = &WorkerFailure{Worker: i, Span: s, Cause: fmt.Errorf("panic: %v", v)}
				}
			}()
			tallies[i] = w.search(gctx, s, i == 0)
			logger.WithField("span", s).Tracef("search: worker %d processed %d candidates, %d hits", i, tallies[i].Processed, len(tallies[i].Hits))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.metrics.FailedRuns.Inc()
		logger.Errorf("search: %v", err)
		return nil, err
	}

	s := Aggregate(&Summary{
		ID:       id,
		Backend:  BackendCPU,
		Total:    r.Index.Len(),
		Workers:  workers,
		Duration: time.Since(start),
	}, tallies)
	if s.HashCount == count {
		ch.Progress(100)
	}

	c.metrics.HashesCount.Add(float64(s.HashCount))
	c.metrics.HitsCount.Add(float64(s.Found()))
	c.metrics.RunDuration.Observe(s.Duration.Seconds())
	logger.Debugf("search: done, %d hashes, %d/%d found in %v", s.HashCount, s.Found(), s.Total, s.Duration)
	return s, nil
}

// worker holds the state shared by all spans of a run.
type worker struct {
	run       *Run
	ch        Channel
	remaining *atomic.Int64
	single    bool
}

// search enumerates span s. Between checkpoints the loop does not look at
// the channel or the context, so a stop request is honored within at most
// OptimalPerWorker candidates. The reporter worker emits progress at each
// checkpoint.
func (w *worker) search(ctx context.Context, s Span, reporter bool) (t Tally) {
	g := w.run.Keyspace.NewGenerator()
	idx := w.run.Index
	for n := s.First; n < s.Last; n++ {
		if n&(OptimalPerWorker-1) == OptimalPerWorker-1 {
			if w.remaining.Load() <= 0 || w.ch.ShouldTerminate() || ctx.Err() != nil {
				return t
			}
			if reporter {
				w.ch.Progress(percent(n, s.Last))
			}
		}

		t.Processed++
		d := g.Digest(n)
		if !idx.Contains(d) {
			continue
		}
		w.remaining.Dec()
		h := Hit{Digest: d, Plain: g.Plain(n)}
		t.Hits = append(t.Hits, h)
		w.ch.Hit(d.String(), h.Plain)
		if w.single {
			return t
		}
	}
	return t
}

// percent returns n as a percentage of last. Float arithmetic keeps n*100
// from overflowing for the widest keyspaces.
func percent(n, last uint64) uint8 {
	if last == 0 || n >= last {
		return 100
	}
	return uint8(float64(n) * 100 / float64(last))
}
