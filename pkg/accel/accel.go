// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package accel runs searches on a data parallel Device.
//
// The host side is a single dispatch loop. Batches are enqueued in flush
// groups of FlushEvery, each batch writing its own region of the shared
// output buffer. After a group the loop waits for the device, reads the
// buffer back and decodes the hits. An output slot holds the offset of the
// matching candidate within its batch, so a zero slot is ambiguous between
// no match and a match of the batch's first candidate. The loop resolves it
// by rehashing the first candidate of every batch of the group on the host.
package accel

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ethersphere/hasher/pkg/keyspace"
	"github.com/ethersphere/hasher/pkg/logging"
	"github.com/ethersphere/hasher/pkg/search"
	"github.com/ethersphere/hasher/pkg/tracing"
	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

const (
	// FlushEvery is the number of batches dispatched between two device
	// synchronizations.
	FlushEvery = 8
	// MaxCount bounds the keyspace size, candidate ids are 32 bit signed
	// integers on the device.
	MaxCount = math.MaxInt32
)

// ErrInputTooLarge is the cause of the configuration error returned for
// keyspaces of MaxCount candidates or more.
var ErrInputTooLarge = errors.New("keyspace too large for the accelerator")

// Executor is the accelerator backend.
type Executor struct {
	device  Device
	logger  logging.Logger
	tracer  *tracing.Tracer
	metrics metrics
}

var _ search.Executor = (*Executor)(nil)

// New returns an accelerator backend on the device. The executor does not
// close the device.
func New(device Device, logger logging.Logger, tracer *tracing.Tracer) *Executor {
	return &Executor{
		device:  device,
		logger:  logger,
		tracer:  tracer,
		metrics: newMetrics(),
	}
}

// Backend returns the name the backend reports in summaries.
func (e *Executor) Backend() string {
	return "accel/" + e.device.Name()
}

// Execute runs r on the device. Device failures are returned as
// *search.DeviceError and abort the run.
func (e *Executor) Execute(ctx context.Context, r *search.Run, ch search.Channel) (*search.Summary, error) {
	if ch == nil {
		ch = search.NopChannel{}
	}
	count := r.Keyspace.Count()
	if count == 0 {
		return nil, keyspace.NewConfigurationError("Count", keyspace.ErrNoCandidates)
	}
	if count >= MaxCount {
		return nil, keyspace.NewConfigurationError("Count", fmt.Errorf("%w: %d candidates", ErrInputTooLarge, count))
	}
	units := e.device.Units()
	if units <= 0 {
		return nil, &search.DeviceError{Op: "units", Err: fmt.Errorf("invalid unit count %d", units)}
	}

	id := uuid.NewString()
	span, logger, ctx := e.tracer.StartSpanFromContext(ctx, "search-accel", e.logger, opentracing.Tag{Key: "run", Value: id})
	defer span.Finish()
	logger = logger.WithFields(logrus.Fields{"run": id, "backend": e.Backend()})
	logger.Debugf("search: %v, %d targets, %d units", r.Keyspace, r.Index.Len(), units)

	e.metrics.RunsCount.Inc()
	start := time.Now()

	d := &dispatcher{
		Executor: e,
		run:      r,
		ch:       ch,
		units:    uint64(units),
		found:    make([]bool, r.Index.Len()),
		logger:   logger,
	}
	t, err := d.loop(ctx)
	if err != nil {
		e.metrics.FailedRuns.Inc()
		logger.Errorf("search: %v", err)
		return nil, err
	}

	s := search.Aggregate(&search.Summary{
		ID:       id,
		Backend:  e.Backend(),
		Total:    r.Index.Len(),
		Workers:  units,
		Duration: time.Since(start),
	}, []search.Tally{t})

	e.metrics.HashesCount.Add(float64(s.HashCount))
	e.metrics.HitsCount.Add(float64(s.Found()))
	logger.Debugf("search: done, %d hashes, %d/%d found in %v", s.HashCount, s.Found(), s.Total, s.Duration)
	return s, nil
}

// dispatcher is the state of one run's dispatch loop.
type dispatcher struct {
	*Executor
	run       *search.Run
	ch        search.Channel
	units     uint64
	found     []bool
	remaining int
	logger    *logrus.Entry
}

type match struct {
	n   uint64
	pos int
}

func (d *dispatcher) loop(ctx context.Context) (t search.Tally, err error) {
	count := d.run.Keyspace.Count()
	targets := d.run.Index.Len()
	d.remaining = targets
	batches := (count + d.units - 1) / d.units

	kernel, err := d.device.Build(KernelSpec{Keyspace: d.run.Keyspace, Index: d.run.Index})
	if err != nil {
		return t, &search.DeviceError{Op: "build", Err: err}
	}
	out, err := d.device.Alloc(FlushEvery * targets)
	if err != nil {
		return t, &search.DeviceError{Op: "alloc", Err: err}
	}
	defer func() {
		if rerr := d.device.Release(out); rerr != nil && err == nil {
			err = &search.DeviceError{Op: "release", Err: rerr}
		}
	}()

	zeros := make([]uint32, FlushEvery*targets)
	host := make([]uint32, FlushEvery*targets)
	gen := d.run.Keyspace.NewGenerator()

	for b := uint64(0); b < batches; {
		group := min(uint64(FlushEvery), batches-b)
		matches, err := d.flush(ctx, kernel, out, zeros, host, b, group)
		if err != nil {
			return t, err
		}
		if d.remaining > 0 {
			matches = append(matches, d.reverify(gen, b, group)...)
		}
		sort.Slice(matches, func(i, j int) bool { return matches[i].n < matches[j].n })
		for _, m := range matches {
			h := search.Hit{Digest: d.run.Index.At(m.pos), Plain: gen.Plain(m.n)}
			t.Hits = append(t.Hits, h)
			d.ch.Hit(h.Digest.String(), h.Plain)
		}

		b += group
		t.Processed = min(b*d.units, count)
		d.ch.Progress(uint8(b * 100 / batches))

		if d.remaining == 0 || d.ch.ShouldTerminate() || ctx.Err() != nil {
			break
		}
	}
	return t, nil
}

// flush dispatches group batches starting at batch first, waits for them and
// decodes the non zero output slots.
func (d *dispatcher) flush(ctx context.Context, kernel Kernel, out Buffer, zeros, host []uint32, first, group uint64) ([]match, error) {
	span, _, _ := d.tracer.StartSpanFromContext(ctx, "accel-flush", nil, opentracing.Tag{Key: "batch", Value: first})
	defer span.Finish()

	targets := d.run.Index.Len()
	if err := d.device.Write(out, zeros); err != nil {
		return nil, &search.DeviceError{Op: "write", Err: err}
	}
	for k := uint64(0); k < group; k++ {
		if err := d.device.Enqueue(kernel, out, int(k), first+k); err != nil {
			return nil, &search.DeviceError{Op: "enqueue", Err: err}
		}
		d.metrics.DispatchesCount.Inc()
	}

	start := time.Now()
	if err := d.device.Finish(); err != nil {
		return nil, &search.DeviceError{Op: "finish", Err: err}
	}
	if err := d.device.Read(out, host); err != nil {
		return nil, &search.DeviceError{Op: "read", Err: err}
	}
	d.metrics.FlushDuration.Observe(time.Since(start).Seconds())
	d.metrics.FlushesCount.Inc()

	var matches []match
	for k := uint64(0); k < group; k++ {
		region := host[int(k)*targets : int(k+1)*targets]
		for p, off := range region {
			if off == 0 || d.found[p] {
				continue
			}
			if uint64(off) >= d.units {
				return nil, &search.DeviceError{Op: "read", Err: fmt.Errorf("slot %d holds offset %d of a %d unit batch", p, off, d.units)}
			}
			d.found[p] = true
			d.remaining--
			matches = append(matches, match{n: (first+k)*d.units + uint64(off), pos: p})
		}
	}
	d.logger.Tracef("search: flushed batches %d to %d, %d matches", first, first+group-1, len(matches))
	return matches, nil
}

// reverify rehashes the first candidate of each batch of the group, whose
// matches are indistinguishable from empty slots in the output buffer.
func (d *dispatcher) reverify(gen *keyspace.Generator, first, group uint64) []match {
	var matches []match
	for k := uint64(0); k < group; k++ {
		n := (first + k) * d.units
		d.metrics.ReverifiedCount.Inc()
		p, ok := d.run.Index.Search(gen.Digest(n))
		if !ok || d.found[p] {
			continue
		}
		d.found[p] = true
		d.remaining--
		d.metrics.ReverifiedHits.Inc()
		matches = append(matches, match{n: n, pos: p})
	}
	return matches
}
