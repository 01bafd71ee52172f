// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package digest contains the fixed-width digest value produced by the
// supported hash primitives and the registry of those primitives.
package digest

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// MaxSize is the widest digest, in bytes, that a Digest can hold.
const MaxSize = 64

var (
	// ErrInvalidLength is returned when a hex string does not have
	// exactly two characters per digest byte.
	ErrInvalidLength = errors.New("invalid digest length")
	// ErrInvalidHex is returned when a hex string holds a character
	// outside of [0-9a-fA-F].
	ErrInvalidHex = errors.New("invalid hex digest")
)

// Digest is a fixed-width hash output. The width is chosen at construction
// time, so one type serves every supported algorithm. Bytes are kept in
// printed order: the first byte is the most significant one, which makes
// the ordering of digests equal to the ordering of their hex strings.
//
// Digest is a comparable value type and is never modified in place.
type Digest struct {
	b [MaxSize]byte
	n uint8
}

// New constructs a Digest from raw hash primitive output.
// It panics if b is longer than MaxSize.
func New(b []byte) Digest {
	if len(b) > MaxSize {
		panic(fmt.Sprintf("digest: %d bytes exceed maximal size %d", len(b), MaxSize))
	}
	var d Digest
	d.n = uint8(copy(d.b[:], b))
	return d
}

// ParseHex returns a Digest of size bytes from its hex representation.
// Both lower and upper case characters are accepted.
func ParseHex(s string, size int) (d Digest, err error) {
	if size <= 0 || size > MaxSize {
		return d, fmt.Errorf("%w: unsupported size %d", ErrInvalidLength, size)
	}
	if len(s) != size*2 {
		return d, fmt.Errorf("%w: %q has %d characters, want %d", ErrInvalidLength, s, len(s), size*2)
	}
	if _, err := hex.Decode(d.b[:size], []byte(s)); err != nil {
		return Digest{}, fmt.Errorf("%w: %q: %v", ErrInvalidHex, s, err)
	}
	d.n = uint8(size)
	return d, nil
}

// MustParseHex returns a Digest from a hex-encoded string representation,
// and panics if there is a parse error.
func MustParseHex(s string) Digest {
	d, err := ParseHex(s, len(s)/2)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the lower case hex representation of the Digest.
func (d Digest) String() string {
	return hex.EncodeToString(d.b[:d.n])
}

// Bytes returns a copy of the Digest bytes, most significant first.
func (d Digest) Bytes() []byte {
	b := make([]byte, d.n)
	copy(b, d.b[:d.n])
	return b
}

// Size returns the width of the Digest in bytes.
func (d Digest) Size() int {
	return int(d.n)
}

// Equal returns true if two digests are identical.
func (d Digest) Equal(o Digest) bool {
	return d == o
}

// IsZero returns true if every byte of the Digest is zero.
func (d Digest) IsZero() bool {
	for _, v := range d.b[:d.n] {
		if v != 0 {
			return false
		}
	}
	return true
}

// Compare returns -1, 0 or +1 depending on whether d is less than, equal to
// or greater than o. Digests of different width are ordered by width.
func (d Digest) Compare(o Digest) int {
	switch {
	case d.n < o.n:
		return -1
	case d.n > o.n:
		return 1
	}
	return bytes.Compare(d.b[:d.n], o.b[:o.n])
}

// Less reports whether d orders before o.
func (d Digest) Less(o Digest) bool {
	return d.Compare(o) < 0
}

// ShiftLeft returns the Digest shifted towards its most significant byte by
// the given number of bits. Bits shifted out of the most significant byte
// are lost and the least significant bits are filled with zeros.
func (d Digest) ShiftLeft(bits uint) Digest {
	n := int(d.n)
	for ; bits >= 8 && n > 0; bits -= 8 {
		copy(d.b[:n-1], d.b[1:n])
		d.b[n-1] = 0
	}
	if bits == 0 || n == 0 {
		return d
	}
	for i := 0; i < n-1; i++ {
		d.b[i] = d.b[i]<<bits | d.b[i+1]>>(8-bits)
	}
	d.b[n-1] <<= bits
	return d
}

// OrLow returns the Digest with v OR-ed into its least significant byte.
// Together with ShiftLeft it builds a Digest up from partial output.
func (d Digest) OrLow(v byte) Digest {
	if d.n > 0 {
		d.b[d.n-1] |= v
	}
	return d
}

// MarshalJSON returns JSON-encoded representation of Digest.
func (d Digest) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON sets Digest to a value from JSON-encoded representation.
func (d *Digest) UnmarshalJSON(b []byte) (err error) {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*d, err = ParseHex(s, len(s)/2)
	return err
}
