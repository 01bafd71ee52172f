// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest_test

import (
	"errors"
	"testing"

	"github.com/ethersphere/hasher/pkg/digest"
	"github.com/google/go-cmp/cmp"
)

func TestAlgorithms(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		size int
		want string
	}{
		{
			name: "md5",
			size: 16,
			want: "e99a18c428cb38d5f260853678922e03",
		},
		{
			name: "sha256",
			size: 32,
			want: "6ca13d52ca70c883e0f0bb101e425a89e8624de51db2d2392593af6a84118090",
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			a, err := digest.Get(tc.name)
			if err != nil {
				t.Fatal(err)
			}
			if a.Size() != tc.size {
				t.Errorf("got size %d, want %d", a.Size(), tc.size)
			}
			got := digest.Sum(a, []byte("abc"), []byte("123"))
			if got.String() != tc.want {
				t.Errorf("got digest %v, want %v", got, tc.want)
			}
			want, err := digest.Parse(a, tc.want)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(want) {
				t.Errorf("parsed digest %v does not match %v", want, got)
			}
		})
	}
}

func TestKeccak256(t *testing.T) {
	t.Parallel()

	// keccak256 of the empty input, as used by Ethereum
	want := "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	if got := digest.Sum(digest.Keccak256).String(); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	if _, err := digest.Get("crc32"); !errors.Is(err, digest.ErrUnknownAlgorithm) {
		t.Errorf("got error %v, want %v", err, digest.ErrUnknownAlgorithm)
	}

	want := []string{"keccak256", "md5", "sha256"}
	if diff := cmp.Diff(want, digest.List()); diff != "" {
		t.Errorf("algorithm list mismatch (-want +got):\n%s", diff)
	}
}
