// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keyspace describes the set of candidate plaintexts of a run and
// implements the rule that turns a numeric candidate id into the bytes that
// get hashed and the plaintext that gets reported.
package keyspace

import (
	"errors"
	"fmt"

	"github.com/ethersphere/hasher/pkg/digest"
	"github.com/go-playground/validator/v10"
)

// MaxLength is the widest numeric part whose range still fits in uint64.
const MaxLength = 19

var validate = validator.New()

// Options are the parameters a Descriptor is built from.
type Options struct {
	// Algorithm hashes every candidate.
	Algorithm digest.Algorithm `validate:"required"`
	// Prefix is prepended to every numeric part.
	Prefix string
	// Length is the zero padded width of the numeric part.
	Length uint8 `validate:"min=1,max=19"`
	// Count caps the number of candidates. Zero selects the full 10^Length range.
	Count uint64
	// Salt is prepended to the digest input only, never to the reported plaintext.
	Salt string
	// XOR enables the byte transform when non empty.
	XOR []byte
}

// Descriptor is the immutable keyspace of a run. It is shared by reference
// between all workers without synchronization.
type Descriptor struct {
	algorithm digest.Algorithm
	prefix    string
	length    int
	count     uint64
	salt      string
	xor       []byte
}

// New validates o and returns the corresponding Descriptor.
// All failures are of type *ConfigurationError.
func New(o Options) (*Descriptor, error) {
	if err := validate.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return nil, NewConfigurationError(fe.Field(), fmt.Errorf("value %v fails %q constraint", fe.Value(), fe.Tag()))
		}
		return nil, NewConfigurationError("", err)
	}

	space := pow10(o.Length)
	count := o.Count
	switch {
	case count == 0:
		count = space
	case count > space:
		return nil, NewConfigurationError("Count", fmt.Errorf("%w: %d > 10^%d", ErrCountOverflow, count, o.Length))
	}

	var xor []byte
	if len(o.XOR) > 0 {
		xor = append([]byte(nil), o.XOR...)
	}

	return &Descriptor{
		algorithm: o.Algorithm,
		prefix:    o.Prefix,
		length:    int(o.Length),
		count:     count,
		salt:      o.Salt,
		xor:       xor,
	}, nil
}

func pow10(n uint8) uint64 {
	v := uint64(1)
	for i := uint8(0); i < n; i++ {
		v *= 10
	}
	return v
}

// Algorithm returns the hash primitive of the keyspace.
func (d *Descriptor) Algorithm() digest.Algorithm { return d.algorithm }

// Prefix returns the fixed plaintext prefix.
func (d *Descriptor) Prefix() string { return d.prefix }

// Length returns the zero padded width of the numeric part.
func (d *Descriptor) Length() int { return d.length }

// Count returns the number of candidates, ids are in [0, Count).
func (d *Descriptor) Count() uint64 { return d.count }

// Salt returns the digest input salt.
func (d *Descriptor) Salt() string { return d.salt }

// Transformed reports whether the XOR and base64 transform is active.
func (d *Descriptor) Transformed() bool { return d.xor != nil }

// XOR returns a copy of the byte transform key, nil if there is none.
func (d *Descriptor) XOR() []byte {
	if d.xor == nil {
		return nil
	}
	return append([]byte(nil), d.xor...)
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s %q+%d digits (%d candidates)", d.algorithm.Name(), d.prefix, d.length, d.count)
}
