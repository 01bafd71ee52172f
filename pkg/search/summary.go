// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package search

import (
	"fmt"
	"math"
	"time"

	"github.com/ethersphere/hasher/pkg/digest"
)

// Span is the half open range of candidate ids [First, Last) owned by one
// worker.
type Span struct {
	First uint64 `json:"first"`
	Last  uint64 `json:"last"`
}

// Len returns the number of candidates in the span.
func (s Span) Len() uint64 {
	return s.Last - s.First
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.First, s.Last)
}

// Hit is a recovered plaintext and the target digest it hashes to.
type Hit struct {
	Digest digest.Digest `json:"hash"`
	Plain  string        `json:"plain"`
}

// Summary is the outcome of a run.
type Summary struct {
	ID        string        `json:"id"`
	Backend   string        `json:"backend"`
	Total     int           `json:"total"`
	HashCount uint64        `json:"hashes"`
	Workers   int           `json:"workers"`
	Duration  time.Duration `json:"duration"`
	Hits      []Hit         `json:"hits"`
}

// Found returns the number of recovered targets.
func (s *Summary) Found() int {
	return len(s.Hits)
}

// Complete reports whether every target was recovered.
func (s *Summary) Complete() bool {
	return len(s.Hits) == s.Total
}

// Rate returns the number of digests computed per millisecond. It is NaN
// for runs that took no measurable time.
func (s *Summary) Rate() float64 {
	us := s.Duration.Microseconds()
	if us == 0 {
		return math.NaN()
	}
	return float64(s.HashCount) / (float64(us) / 1000)
}
