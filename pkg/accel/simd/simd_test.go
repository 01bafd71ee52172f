// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simd_test

import (
	"errors"
	"testing"

	"github.com/ethersphere/hasher/pkg/accel"
	"github.com/ethersphere/hasher/pkg/accel/simd"
	"github.com/ethersphere/hasher/pkg/digest"
	"github.com/ethersphere/hasher/pkg/index"
	"github.com/ethersphere/hasher/pkg/keyspace"
	"github.com/google/go-cmp/cmp"
)

func newSpec(t *testing.T, o keyspace.Options, ns ...uint64) accel.KernelSpec {
	t.Helper()

	ks, err := keyspace.New(o)
	if err != nil {
		t.Fatal(err)
	}
	g := ks.NewGenerator()
	targets := make([]digest.Digest, len(ns))
	for i, n := range ns {
		targets[i] = g.Digest(n)
	}
	idx, err := index.New(targets)
	if err != nil {
		t.Fatal(err)
	}
	return accel.KernelSpec{Keyspace: ks, Index: idx}
}

func TestKernelOutput(t *testing.T) {
	t.Parallel()

	for _, alg := range []digest.Algorithm{digest.MD5, digest.SHA256, digest.Keccak256} {
		alg := alg
		t.Run(alg.Name(), func(t *testing.T) {
			t.Parallel()

			d := simd.New(simd.Options{Lanes: 50, Workers: 4})
			defer d.Close()

			spec := newSpec(t, keyspace.Options{Algorithm: alg, Prefix: "k", Length: 3, Salt: "x"}, 7, 149, 160)
			k, err := d.Build(spec)
			if err != nil {
				t.Fatal(err)
			}
			targets := spec.Index.Len()
			buf, err := d.Alloc(2 * targets)
			if err != nil {
				t.Fatal(err)
			}
			if err := d.Enqueue(k, buf, 0, 2); err != nil {
				t.Fatal(err)
			}
			if err := d.Enqueue(k, buf, 1, 3); err != nil {
				t.Fatal(err)
			}
			if err := d.Finish(); err != nil {
				t.Fatal(err)
			}
			got := make([]uint32, 2*targets)
			if err := d.Read(buf, got); err != nil {
				t.Fatal(err)
			}

			g := spec.Keyspace.NewGenerator()
			want := make([]uint32, 2*targets)
			// batch 2 holds 100..149, batch 3 holds 150..199
			p, _ := spec.Index.Search(g.Digest(149))
			want[p] = 49
			p, _ = spec.Index.Search(g.Digest(160))
			want[targets+p] = 10
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeviceMisuse(t *testing.T) {
	t.Parallel()

	spec := newSpec(t, keyspace.Options{Algorithm: digest.MD5, Length: 2}, 1, 2)
	d := simd.New(simd.Options{Lanes: 10})
	k, err := d.Build(spec)
	if err != nil {
		t.Fatal(err)
	}
	buf, err := d.Alloc(2)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Enqueue(k, buf, 1, 0); !errors.Is(err, accel.ErrOutOfRange) {
		t.Errorf("region past the buffer: got error %v", err)
	}
	if err := d.Enqueue(k, buf, 0, 10); !errors.Is(err, accel.ErrOutOfRange) {
		t.Errorf("batch past the keyspace: got error %v", err)
	}
	if err := d.Read(buf, make([]uint32, 3)); !errors.Is(err, accel.ErrOutOfRange) {
		t.Errorf("oversized read: got error %v", err)
	}
	if err := d.Write(buf, make([]uint32, 3)); !errors.Is(err, accel.ErrOutOfRange) {
		t.Errorf("oversized write: got error %v", err)
	}
	if _, err := d.Alloc(0); !errors.Is(err, accel.ErrOutOfRange) {
		t.Errorf("empty alloc: got error %v", err)
	}

	other := simd.New(simd.Options{Lanes: 10})
	defer other.Close()
	foreign, err := other.Alloc(2)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Enqueue(k, foreign, 0, 0); !errors.Is(err, accel.ErrUnknownBuffer) {
		t.Errorf("foreign buffer: got error %v", err)
	}
	otherKernel, err := other.Build(spec)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Enqueue(otherKernel, buf, 0, 0); !errors.Is(err, accel.ErrUnknownKernel) {
		t.Errorf("foreign kernel: got error %v", err)
	}

	mixed := newSpec(t, keyspace.Options{Algorithm: digest.SHA256, Length: 2}, 1)
	mixed.Keyspace, _ = keyspace.New(keyspace.Options{Algorithm: digest.MD5, Length: 2})
	if _, err := d.Build(mixed); err == nil {
		t.Error("built a kernel for mismatched target width")
	}

	if err := d.Release(buf); err != nil {
		t.Fatal(err)
	}
	if err := d.Read(buf, make([]uint32, 1)); !errors.Is(err, accel.ErrUnknownBuffer) {
		t.Errorf("released buffer: got error %v", err)
	}

	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if err := d.Finish(); !errors.Is(err, accel.ErrClosed) {
		t.Errorf("finish after close: got error %v", err)
	}
	if _, err := d.Alloc(1); !errors.Is(err, accel.ErrClosed) {
		t.Errorf("alloc after close: got error %v", err)
	}
	if err := d.Close(); !errors.Is(err, accel.ErrClosed) {
		t.Errorf("second close: got error %v", err)
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	d := simd.New(simd.Options{})
	defer d.Close()

	if d.Units() != simd.DefaultLanes {
		t.Errorf("got %d units, want %d", d.Units(), simd.DefaultLanes)
	}
	if d.Name() != "simd" {
		t.Errorf("got name %q", d.Name())
	}
}
