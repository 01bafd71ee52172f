// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package index provides the immutable membership structure that every
// generated candidate digest is tested against.
//
// The target digests are sorted and then permuted into the breadth-first
// (Eytzinger) layout of the implicit binary search tree: the element a binary
// search compares first lives at position 1, its children at 2 and 3, and in
// general position i has children 2i and 2i+1. A lookup walks the array in
// increasing position order, which keeps memory access predictable even for
// large target sets.
package index

import (
	"errors"
	"math/bits"
	"sort"

	"github.com/ethersphere/hasher/pkg/digest"
)

var (
	// ErrEmpty is returned when an index is built from no digests.
	ErrEmpty = errors.New("index: no target digests")
	// ErrMixedSize is returned when digests of different width are indexed together.
	ErrMixedSize = errors.New("index: target digests differ in size")
)

// Index is a read-only set of digests in Eytzinger layout.
// It is safe for concurrent use by any number of readers.
type Index struct {
	// tree[0] is unused so that children of i are at 2i and 2i+1.
	tree []digest.Digest
	size int
}

// New builds an Index over the given digests. Duplicates are collapsed.
// The input slice is not modified.
func New(targets []digest.Digest) (*Index, error) {
	if len(targets) == 0 {
		return nil, ErrEmpty
	}
	size := targets[0].Size()
	sorted := make([]digest.Digest, len(targets))
	for i, t := range targets {
		if t.Size() != size {
			return nil, ErrMixedSize
		}
		sorted[i] = t
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Less(sorted[j])
	})
	sorted = unique(sorted)

	tree := make([]digest.Digest, len(sorted)+1)
	eytzinger(sorted, tree, 0, 1)

	return &Index{
		tree: tree,
		size: size,
	}, nil
}

// eytzinger fills tree positions reachable from k with an in-order walk over
// sorted, returning the next unconsumed element of sorted.
func eytzinger(sorted, tree []digest.Digest, i, k int) int {
	if k < len(tree) {
		i = eytzinger(sorted, tree, i, 2*k)
		tree[k] = sorted[i]
		i++
		i = eytzinger(sorted, tree, i, 2*k+1)
	}
	return i
}

func unique(sorted []digest.Digest) []digest.Digest {
	n := 0
	for i := range sorted {
		if i > 0 && sorted[i] == sorted[n-1] {
			continue
		}
		sorted[n] = sorted[i]
		n++
	}
	return sorted[:n]
}

// Search looks d up and returns its zero-based position in the layout.
// Positions are stable for the lifetime of the Index and are used to
// attribute results to individual targets.
func (x *Index) Search(d digest.Digest) (pos int, ok bool) {
	n := len(x.tree) - 1
	k := 1
	for k <= n {
		k = 2*k + lessInt(x.tree[k], d)
	}
	// Undo the descent below the lower bound: drop the trailing right
	// turns and the final left turn.
	k >>= uint(bits.TrailingZeros(^uint(k))) + 1
	if k == 0 || x.tree[k] != d {
		return 0, false
	}
	return k - 1, true
}

func lessInt(a, b digest.Digest) int {
	if a.Less(b) {
		return 1
	}
	return 0
}

// Contains reports whether d is one of the indexed digests.
func (x *Index) Contains(d digest.Digest) bool {
	_, ok := x.Search(d)
	return ok
}

// Len returns the number of distinct indexed digests.
func (x *Index) Len() int {
	return len(x.tree) - 1
}

// Size returns the width in bytes of the indexed digests.
func (x *Index) Size() int {
	return x.size
}

// At returns the digest stored at a position returned by Search.
func (x *Index) At(pos int) digest.Digest {
	return x.tree[pos+1]
}

// Digests returns the indexed digests in ascending order.
func (x *Index) Digests() []digest.Digest {
	out := make([]digest.Digest, x.Len())
	inorder(x.tree, out, 0, 1)
	return out
}

func inorder(tree, out []digest.Digest, i, k int) int {
	if k < len(tree) {
		i = inorder(tree, out, i, 2*k)
		out[i] = tree[k]
		i++
		i = inorder(tree, out, i, 2*k+1)
	}
	return i
}
