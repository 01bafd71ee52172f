// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package encrypt hashes plaintexts the way search candidates are hashed,
// which is useful for producing targets.
package encrypt

import (
	"context"
	"runtime"

	"github.com/ethersphere/hasher/pkg/digest"
	"golang.org/x/sync/errgroup"
)

// Result is a plaintext and its salted digest.
type Result struct {
	Plain  string
	Digest digest.Digest
}

// Execute returns the digest of salt followed by each input, in input
// order. Inputs are hashed by up to workers goroutines, zero selects the
// number of CPUs.
func Execute(ctx context.Context, alg digest.Algorithm, salt string, inputs []string, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]Result, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = Result{
				Plain:  in,
				Digest: digest.Sum(alg, []byte(salt), []byte(in)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
