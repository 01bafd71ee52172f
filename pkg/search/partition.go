// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package search

import (
	"fmt"
	"runtime"

	"github.com/ethersphere/hasher/pkg/keyspace"
)

const (
	// OptimalPerWorker is the smallest share of candidates worth a worker
	// of its own. It is a power of two and doubles as the checkpoint
	// interval of the CPU workers.
	OptimalPerWorker = 16 * 1024
	// MaxWorkers bounds the number of parallel workers of a run.
	MaxWorkers = 255
)

// WorkerCount returns the number of workers for count candidates. A
// requested value of zero selects the number of CPUs.
func WorkerCount(requested int, count uint64) (int, error) {
	if count == 0 {
		return 0, keyspace.NewConfigurationError("Count", keyspace.ErrNoCandidates)
	}
	available := requested
	switch {
	case requested < 0:
		return 0, keyspace.NewConfigurationError("Workers", fmt.Errorf("negative worker count %d", requested))
	case requested > MaxWorkers:
		return 0, keyspace.NewConfigurationError("Workers", fmt.Errorf("%w: %d > %d", ErrTooManyWorkers, requested, MaxWorkers))
	case requested == 0:
		available = min(runtime.NumCPU(), MaxWorkers)
	}

	n := count/OptimalPerWorker + 1
	if n < uint64(available) {
		return int(n), nil
	}
	return available, nil
}

// Partition splits [0, count) into workers contiguous ascending spans. Every
// span gets count/workers candidates, the last one also takes the remainder.
func Partition(workers int, count uint64) []Span {
	if workers <= 0 {
		return nil
	}
	per := count / uint64(workers)
	spans := make([]Span, workers)
	for i := range spans {
		spans[i] = Span{
			First: uint64(i) * per,
			Last:  uint64(i+1) * per,
		}
	}
	spans[workers-1].Last = count
	return spans
}
