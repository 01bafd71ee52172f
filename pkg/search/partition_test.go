// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package search_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/ethersphere/hasher/pkg/keyspace"
	"github.com/ethersphere/hasher/pkg/search"
)

func TestWorkerCount(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name      string
		requested int
		count     uint64
		want      int
		wantField string
	}{
		{name: "small keyspace", requested: 8, count: 100, want: 1},
		{name: "just below two shares", requested: 8, count: 2*search.OptimalPerWorker - 1, want: 2},
		{name: "capped by request", requested: 4, count: 1_000_000, want: 4},
		{name: "maximum", requested: search.MaxWorkers, count: 1 << 40, want: search.MaxWorkers},
		{name: "auto", requested: 0, count: 1 << 40, want: min(runtime.NumCPU(), search.MaxWorkers)},
		{name: "no candidates", requested: 4, count: 0, wantField: "Count"},
		{name: "too many", requested: search.MaxWorkers + 1, count: 1 << 40, wantField: "Workers"},
		{name: "negative", requested: -1, count: 100, wantField: "Workers"},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := search.WorkerCount(tc.requested, tc.count)
			if tc.wantField != "" {
				var cerr *search.ConfigurationError
				if !errors.As(err, &cerr) {
					t.Fatalf("got error %v, want configuration error", err)
				}
				if cerr.Field != tc.wantField {
					t.Errorf("got field %q, want %q", cerr.Field, tc.wantField)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %d workers, want %d", got, tc.want)
			}
		})
	}

	_, err := search.WorkerCount(1, 0)
	if !errors.Is(err, keyspace.ErrNoCandidates) {
		t.Errorf("got error %v, want %v", err, keyspace.ErrNoCandidates)
	}
}

func TestPartition(t *testing.T) {
	t.Parallel()

	for _, workers := range []int{1, 2, 3, 7, 16, search.MaxWorkers} {
		for _, count := range []uint64{uint64(workers), 100, 1000, 16385, 1_000_003} {
			if count < uint64(workers) {
				continue
			}
			spans := search.Partition(workers, count)
			if len(spans) != workers {
				t.Fatalf("%d workers over %d: got %d spans", workers, count, len(spans))
			}
			var next, total uint64
			for i, s := range spans {
				if s.First != next {
					t.Fatalf("%d workers over %d: span %d starts at %d, want %d", workers, count, i, s.First, next)
				}
				if s.Last <= s.First {
					t.Fatalf("%d workers over %d: empty span %d %v", workers, count, i, s)
				}
				if i < workers-1 && s.Len() != count/uint64(workers) {
					t.Fatalf("%d workers over %d: span %d has %d candidates", workers, count, i, s.Len())
				}
				next = s.Last
				total += s.Len()
			}
			if next != count || total != count {
				t.Fatalf("%d workers over %d: spans cover %d candidates up to %d", workers, count, total, next)
			}
		}
	}

	if spans := search.Partition(0, 10); spans != nil {
		t.Errorf("got spans %v for zero workers", spans)
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		n, last uint64
		want    uint8
	}{
		{0, 100, 0},
		{50, 100, 50},
		{99, 100, 99},
		{100, 100, 100},
		{1 << 63, 1<<64 - 1, 50},
		{5, 0, 100},
	} {
		if got := search.Percent(tc.n, tc.last); got != tc.want {
			t.Errorf("percent(%d, %d): got %d, want %d", tc.n, tc.last, got, tc.want)
		}
	}
}
