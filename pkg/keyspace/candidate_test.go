// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyspace_test

import (
	"errors"
	"testing"

	"github.com/ethersphere/hasher/pkg/digest"
	"github.com/ethersphere/hasher/pkg/keyspace"
)

func mustNew(t *testing.T, o keyspace.Options) *keyspace.Descriptor {
	t.Helper()

	d, err := keyspace.New(o)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestGenerator(t *testing.T) {
	t.Parallel()

	xor := []byte{3, 4, 5, 6}
	for _, tc := range []struct {
		name      string
		algorithm digest.Algorithm
		xor       []byte
		n         uint64
		digest    string
		plain     string
	}{
		{"sha256 23", digest.SHA256, nil, 23, "6ca13d52ca70c883e0f0bb101e425a89e8624de51db2d2392593af6a84118090", "123"},
		{"sha256 55", digest.SHA256, nil, 55, "97193f3095a7fc166ae10276c083735b41a36abdaac6a33e62d15b7eafa22a67", "155"},
		{"sha256 99", digest.SHA256, nil, 99, "237dd1639d476eda038aff4b83283e3c657a9f38b50c2d7177336d344fe8992e", "199"},
		{"sha256 xor 23", digest.SHA256, xor, 23, "f3b90305e926c8d7ad0c4a1750532341875df1aeecde3c508bfbe4be1969180c", "MjY2"},
		{"sha256 xor 55", digest.SHA256, xor, 55, "836bfc1d576b5a04e1688cd4603f42a67dda7e31c2e7adb5142eb4c4e898a66d", "MjEw"},
		{"sha256 xor 99", digest.SHA256, xor, 99, "8823993be0da4a4f07aa33dd3ebfe1a33b36f01d5d11d64e93235119e8b3468f", "Mj08"},
		{"md5 23", digest.MD5, nil, 23, "e99a18c428cb38d5f260853678922e03", "123"},
		{"md5 55", digest.MD5, nil, 55, "6b14d696623c7b26c275da041719ce53", "155"},
		{"md5 99", digest.MD5, nil, 99, "361ac235e1e08be7325a8ced898e6ff4", "199"},
		{"md5 xor 23", digest.MD5, xor, 23, "7900c0f65c087c03458293d7bb172ed1", "MjY2"},
		{"md5 xor 55", digest.MD5, xor, 55, "7c1b8268077c6a9439fb82434dd5a5af", "MjEw"},
		{"md5 xor 99", digest.MD5, xor, 99, "dd9eac6ed5ce1d8c5a645b4642ca1cd8", "Mj08"},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := mustNew(t, keyspace.Options{
				Algorithm: tc.algorithm,
				Prefix:    "1",
				Length:    2,
				Salt:      "abc",
				XOR:       tc.xor,
			})
			g := d.NewGenerator()

			// generate unrelated candidates first to exercise buffer reuse
			g.Digest(0)
			g.Digest(98)

			if got := g.Digest(tc.n).String(); got != tc.digest {
				t.Errorf("got digest %v, want %v", got, tc.digest)
			}
			if got := g.Plain(tc.n); got != tc.plain {
				t.Errorf("got plaintext %q, want %q", got, tc.plain)
			}
		})
	}
}

func TestZeroPadding(t *testing.T) {
	t.Parallel()

	d := mustNew(t, keyspace.Options{Algorithm: digest.MD5, Prefix: "id-", Length: 5, Salt: "s"})
	g := d.NewGenerator()
	for n, want := range map[uint64]string{
		0:     "id-00000",
		7:     "id-00007",
		12345: "id-12345",
		99999: "id-99999",
	} {
		if got := g.Plain(n); got != want {
			t.Errorf("plaintext of %d: got %q, want %q", n, got, want)
		}
		if got := d.Candidate(n); got != want {
			t.Errorf("candidate %d: got %q, want %q", n, got, want)
		}
		if got, want := string(g.Input(n)), "s"+want; got != want {
			t.Errorf("input of %d: got %q, want %q", n, got, want)
		}
	}
}

func TestReverse(t *testing.T) {
	t.Parallel()

	for _, key := range [][]byte{{3, 4, 5, 6}, {0xff}, {1, 2}} {
		d := mustNew(t, keyspace.Options{Algorithm: digest.SHA256, Prefix: "user", Length: 3, XOR: key})
		g := d.NewGenerator()
		for n := uint64(0); n < d.Count(); n += 37 {
			got, err := d.Reverse(g.Plain(n))
			if err != nil {
				t.Fatal(err)
			}
			if want := d.Candidate(n); got != want {
				t.Fatalf("key %v: reversed %q, want %q", key, got, want)
			}
		}
	}

	d := mustNew(t, keyspace.Options{Algorithm: digest.SHA256, Length: 3})
	if _, err := d.Reverse("MjY2"); !errors.Is(err, keyspace.ErrNotTransformed) {
		t.Errorf("got error %v, want %v", err, keyspace.ErrNotTransformed)
	}
}
