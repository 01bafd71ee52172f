// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simd implements a software accel.Device. It keeps the device
// model of a command queue drained by Finish and a fixed number of lanes
// per batch, and spreads the lanes of a batch over goroutines. MD5 lanes
// are multiplexed onto the vector units through md5-simd, SHA-256 uses the
// sha256-simd implementation of the digest package.
package simd

import (
	"fmt"
	"hash"
	"runtime"
	"sync"

	"github.com/ethersphere/hasher/pkg/accel"
	"github.com/ethersphere/hasher/pkg/digest"
	md5simd "github.com/minio/md5-simd"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// DefaultLanes is the number of candidates per batch of a device created
// with zero lanes.
const DefaultLanes = 1 << 14

// md5Streams is the number of concurrent hashes an md5-simd server
// interleaves.
const md5Streams = 16

type Options struct {
	// Lanes is the number of candidates per batch.
	Lanes int
	// Workers is the number of goroutines executing the lanes of a batch,
	// zero selects the number of CPUs.
	Workers int
}

// Device is a software accelerator. It is safe for concurrent use.
type Device struct {
	lanes   int
	workers int

	mu      sync.Mutex
	closed  bool
	queue   []command
	kernels map[*kernel]struct{}
	buffers map[*buffer]struct{}
	md5     md5simd.Server
}

var _ accel.Device = (*Device)(nil)

type kernel struct {
	spec accel.KernelSpec
	md5  bool
}

func (k *kernel) Name() string {
	return "search-" + k.spec.Keyspace.Algorithm().Name()
}

type buffer struct {
	slots []atomic.Uint32
}

func (b *buffer) Len() int {
	return len(b.slots)
}

type command struct {
	kernel *kernel
	out    *buffer
	region int
	batch  uint64
}

// New returns a software device.
func New(o Options) *Device {
	if o.Lanes <= 0 {
		o.Lanes = DefaultLanes
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	return &Device{
		lanes:   o.Lanes,
		workers: o.Workers,
		kernels: make(map[*kernel]struct{}),
		buffers: make(map[*buffer]struct{}),
	}
}

func (d *Device) Name() string {
	return "simd"
}

func (d *Device) Units() int {
	return d.lanes
}

func (d *Device) Build(spec accel.KernelSpec) (accel.Kernel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, accel.ErrClosed
	}
	if spec.Keyspace == nil || spec.Index == nil {
		return nil, fmt.Errorf("build: incomplete kernel spec")
	}
	alg := spec.Keyspace.Algorithm()
	if spec.Index.Size() != alg.Size() {
		return nil, fmt.Errorf("build: %d byte targets for %s", spec.Index.Size(), alg.Name())
	}
	k := &kernel{
		spec: spec,
		md5:  alg.Name() == digest.MD5.Name(),
	}
	if k.md5 && d.md5 == nil {
		d.md5 = md5simd.NewServer()
	}
	d.kernels[k] = struct{}{}
	return k, nil
}

func (d *Device) Alloc(n int) (accel.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, accel.ErrClosed
	}
	if n <= 0 {
		return nil, fmt.Errorf("alloc %d slots: %w", n, accel.ErrOutOfRange)
	}
	b := &buffer{slots: make([]atomic.Uint32, n)}
	d.buffers[b] = struct{}{}
	return b, nil
}

// buffer returns the device buffer behind b. The caller holds the lock.
func (d *Device) buffer(b accel.Buffer) (*buffer, error) {
	if d.closed {
		return nil, accel.ErrClosed
	}
	buf, ok := b.(*buffer)
	if !ok {
		return nil, accel.ErrUnknownBuffer
	}
	if _, ok := d.buffers[buf]; !ok {
		return nil, accel.ErrUnknownBuffer
	}
	return buf, nil
}

func (d *Device) Write(b accel.Buffer, src []uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf, err := d.buffer(b)
	if err != nil {
		return err
	}
	if len(src) > len(buf.slots) {
		return fmt.Errorf("write %d slots into %d: %w", len(src), len(buf.slots), accel.ErrOutOfRange)
	}
	for i, v := range src {
		buf.slots[i].Store(v)
	}
	return nil
}

func (d *Device) Read(b accel.Buffer, dst []uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf, err := d.buffer(b)
	if err != nil {
		return err
	}
	if len(dst) > len(buf.slots) {
		return fmt.Errorf("read %d slots from %d: %w", len(dst), len(buf.slots), accel.ErrOutOfRange)
	}
	for i := range dst {
		dst[i] = buf.slots[i].Load()
	}
	return nil
}

func (d *Device) Enqueue(k accel.Kernel, out accel.Buffer, region int, batch uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf, err := d.buffer(out)
	if err != nil {
		return err
	}
	kern, ok := k.(*kernel)
	if !ok {
		return accel.ErrUnknownKernel
	}
	if _, ok := d.kernels[kern]; !ok {
		return accel.ErrUnknownKernel
	}
	targets := kern.spec.Index.Len()
	if region < 0 || (region+1)*targets > len(buf.slots) {
		return fmt.Errorf("region %d of %d slots: %w", region, len(buf.slots), accel.ErrOutOfRange)
	}
	if batch*uint64(d.lanes) >= kern.spec.Keyspace.Count() {
		return fmt.Errorf("batch %d past the keyspace: %w", batch, accel.ErrOutOfRange)
	}
	d.queue = append(d.queue, command{kernel: kern, out: buf, region: region, batch: batch})
	return nil
}

// Finish executes all queued commands in order.
func (d *Device) Finish() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return accel.ErrClosed
	}
	queue := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, c := range queue {
		if err := d.execute(c); err != nil {
			return err
		}
	}
	return nil
}

// execute runs the lanes of one batch in contiguous chunks.
func (d *Device) execute(c command) error {
	ks := c.kernel.spec.Keyspace
	idx := c.kernel.spec.Index
	first := c.batch * uint64(d.lanes)
	lanes := uint64(d.lanes)
	if rest := ks.Count() - first; rest < lanes {
		lanes = rest
	}
	slots := c.out.slots[c.region*idx.Len() : (c.region+1)*idx.Len()]

	chunks := uint64(d.workers)
	if c.kernel.md5 {
		chunks = max(chunks, md5Streams)
	}
	chunks = min(chunks, lanes)
	per := (lanes + chunks - 1) / chunks

	var g errgroup.Group
	for lo := uint64(0); lo < lanes; lo += per {
		lo, hi := lo, min(lo+per, lanes)
		g.Go(func() error {
			gen := ks.NewGenerator()
			var h hash.Hash
			if c.kernel.md5 {
				mh := d.md5.NewHash()
				defer mh.Close()
				h = mh
			} else {
				h = ks.Algorithm().New()
			}
			sum := make([]byte, 0, digest.MaxSize)
			for j := lo; j < hi; j++ {
				h.Reset()
				if _, err := h.Write(gen.Input(first + j)); err != nil {
					return err
				}
				if pos, ok := idx.Search(digest.New(h.Sum(sum[:0]))); ok {
					slots[pos].Store(uint32(j))
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (d *Device) Release(b accel.Buffer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf, err := d.buffer(b)
	if err != nil {
		return err
	}
	delete(d.buffers, buf)
	return nil
}

// Close discards queued commands and releases all device resources.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return accel.ErrClosed
	}
	d.closed = true
	d.queue = nil
	d.kernels = nil
	d.buffers = nil
	if d.md5 != nil {
		d.md5.Close()
	}
	return nil
}
