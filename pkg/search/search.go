// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package search runs the exhaustive digest recovery over a keyspace.
//
// A run enumerates the candidates of a keyspace.Descriptor, hashes each of
// them and looks the digest up in an index.Index of targets. Candidates are
// split into contiguous spans, one per worker. Workers share a single
// counter of targets still to be found and stop early once it drops to
// zero, the Channel asks them to, or the context is done.
package search

import (
	"context"
	"fmt"

	"github.com/ethersphere/hasher/pkg/index"
	"github.com/ethersphere/hasher/pkg/keyspace"
)

// Run holds the immutable inputs of a search.
type Run struct {
	Keyspace *keyspace.Descriptor
	Index    *index.Index
	// Workers is the requested parallelism, zero selects the number of CPUs.
	Workers int
}

// NewRun validates that the targets can be matched against the keyspace.
func NewRun(ks *keyspace.Descriptor, idx *index.Index, workers int) (*Run, error) {
	if ks == nil {
		return nil, keyspace.NewConfigurationError("Keyspace", keyspace.ErrNoCandidates)
	}
	if idx == nil || idx.Len() == 0 {
		return nil, keyspace.NewConfigurationError("Index", index.ErrEmpty)
	}
	if got, want := idx.Size(), ks.Algorithm().Size(); got != want {
		return nil, keyspace.NewConfigurationError("Index", fmt.Errorf("%w: %d bytes, %s produces %d", ErrDigestSize, got, ks.Algorithm().Name(), want))
	}
	return &Run{
		Keyspace: ks,
		Index:    idx,
		Workers:  workers,
	}, nil
}

// Executor is a search backend. Execute blocks until the run ends and
// returns its summary, or an error if the run could not be carried out.
type Executor interface {
	Execute(ctx context.Context, r *Run, ch Channel) (*Summary, error)
}
