// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyspace

import (
	"encoding/base64"
	"fmt"
	"hash"

	"github.com/ethersphere/hasher/pkg/digest"
)

// Generator produces candidates of a Descriptor. It owns its buffers and its
// hash instance, so every worker needs its own Generator.
//
// For a numeric id n the candidate is prefix ++ zero padded n. Without a
// transform key the digest input is salt ++ candidate and the candidate is
// the reported plaintext. With a transform key the candidate bytes are XOR-ed
// with the cyclic key and base64 encoded; the digest input is
// salt ++ encoded and the encoded string is the reported plaintext.
// In both cases the plaintext is the digest input without the salt.
type Generator struct {
	d    *Descriptor
	h    hash.Hash
	head []byte // salt, followed by the prefix when there is no transform
	in   []byte // digest input of the last generated candidate
	raw  []byte // untransformed candidate scratch space
	sum  [digest.MaxSize]byte
}

// NewGenerator returns a Generator over the keyspace.
func (d *Descriptor) NewGenerator() *Generator {
	head := []byte(d.salt)
	if !d.Transformed() {
		// constant part of every digest input
		head = append(head, d.prefix...)
	}
	rawLen := len(d.prefix) + d.length
	return &Generator{
		d:    d,
		h:    d.algorithm.New(),
		head: head,
		in:   make([]byte, 0, len(head)+base64.StdEncoding.EncodedLen(rawLen)+d.length),
		raw:  make([]byte, 0, rawLen),
	}
}

// appendNumber appends n zero padded to width. n must be below 10^width.
func appendNumber(dst []byte, n uint64, width int) []byte {
	start := len(dst)
	for i := 0; i < width; i++ {
		dst = append(dst, '0')
	}
	for i := len(dst) - 1; i >= start && n > 0; i-- {
		dst[i] = '0' + byte(n%10)
		n /= 10
	}
	return dst
}

// input builds the digest input of candidate n into g.in.
func (g *Generator) input(n uint64) []byte {
	g.in = append(g.in[:0], g.head...)
	if !g.d.Transformed() {
		g.in = appendNumber(g.in, n, g.d.length)
		return g.in
	}

	g.raw = append(g.raw[:0], g.d.prefix...)
	g.raw = appendNumber(g.raw, n, g.d.length)
	xor(g.raw, g.d.xor)

	start := len(g.in)
	size := base64.StdEncoding.EncodedLen(len(g.raw))
	for i := 0; i < size; i++ {
		g.in = append(g.in, 0)
	}
	base64.StdEncoding.Encode(g.in[start:], g.raw)
	return g.in
}

// xor applies the cyclic key to b in place.
func xor(b, key []byte) {
	for i := range b {
		b[i] ^= key[i%len(key)]
	}
}

// Digest returns the digest of candidate n.
func (g *Generator) Digest(n uint64) digest.Digest {
	g.h.Reset()
	_, _ = g.h.Write(g.input(n))
	return digest.New(g.h.Sum(g.sum[:0]))
}

// Input returns the digest input of candidate n. The returned slice is only
// valid until the next call on g.
func (g *Generator) Input(n uint64) []byte {
	return g.input(n)
}

// Plain returns the plaintext reported when candidate n matches a target.
func (g *Generator) Plain(n uint64) string {
	return string(g.input(n)[len(g.d.salt):])
}

// Candidate returns prefix ++ zero padded n, the value the keyspace
// enumerates before any transform.
func (d *Descriptor) Candidate(n uint64) string {
	return string(appendNumber([]byte(d.prefix), n, d.length))
}

// Reverse undoes the byte transform of a reported plaintext and returns the
// underlying candidate.
func (d *Descriptor) Reverse(plain string) (string, error) {
	if !d.Transformed() {
		return "", ErrNotTransformed
	}
	raw, err := base64.StdEncoding.DecodeString(plain)
	if err != nil {
		return "", fmt.Errorf("decode plaintext: %w", err)
	}
	xor(raw, d.xor)
	return string(raw), nil
}
