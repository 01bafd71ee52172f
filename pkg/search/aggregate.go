// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package search

// Tally is what a single worker, or a single accelerator flush, reports
// back to the aggregator.
type Tally struct {
	Processed uint64
	Hits      []Hit
}

// Aggregate folds the tallies, ordered by span, into the run summary. The
// hash count is the sum of processed candidates and the hits keep the span
// order.
func Aggregate(s *Summary, tallies []Tally) *Summary {
	n := 0
	for _, t := range tallies {
		n += len(t.Hits)
	}
	s.Hits = make([]Hit, 0, n)
	for _, t := range tallies {
		s.HashCount += t.Processed
		s.Hits = append(s.Hits, t.Hits...)
	}
	return s
}
