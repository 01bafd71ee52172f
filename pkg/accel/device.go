// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package accel

import (
	"errors"

	"github.com/ethersphere/hasher/pkg/index"
	"github.com/ethersphere/hasher/pkg/keyspace"
)

var (
	// ErrClosed is returned by devices on any call after Close.
	ErrClosed = errors.New("device closed")
	// ErrOutOfRange is returned for buffer accesses past the allocation.
	ErrOutOfRange = errors.New("buffer access out of range")
	// ErrUnknownKernel is returned when enqueuing a kernel the device did
	// not build.
	ErrUnknownKernel = errors.New("unknown kernel")
	// ErrUnknownBuffer is returned for buffers the device did not allocate
	// or already released.
	ErrUnknownBuffer = errors.New("unknown buffer")
)

// KernelSpec is what a search kernel is built from.
type KernelSpec struct {
	Keyspace *keyspace.Descriptor
	Index    *index.Index
}

// Kernel is a search program built for one device.
type Kernel interface {
	Name() string
}

// Buffer is device memory of uint32 slots.
type Buffer interface {
	Len() int
}

// Device is a data parallel hashing device.
//
// An enqueued search kernel for batch b covers the candidates
// [b*Units, (b+1)*Units), clipped to the keyspace count. For every candidate
// whose digest is at position p of the kernel's index, the kernel stores
// the candidate's offset within the batch into slot region*Len+p of the
// output buffer, where Len is the number of targets. Slots of targets
// without a match are left untouched. Enqueued work may run at any time
// until Finish returns.
type Device interface {
	Name() string
	// Units is the number of candidates covered by one batch.
	Units() int
	Build(spec KernelSpec) (Kernel, error)
	Alloc(n int) (Buffer, error)
	// Write copies src into the buffer, starting at the first slot.
	Write(b Buffer, src []uint32) error
	Enqueue(k Kernel, out Buffer, region int, batch uint64) error
	// Finish blocks until all enqueued work is done.
	Finish() error
	// Read copies the buffer into dst, starting at the first slot.
	Read(b Buffer, dst []uint32) error
	Release(b Buffer) error
	Close() error
}
