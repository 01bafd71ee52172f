// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mock

import (
	"sync"

	"github.com/ethersphere/hasher/pkg/accel"
)

// Device wraps a device and fails a chosen operation.
type Device struct {
	accel.Device

	mu     sync.Mutex
	failOp string
	after  int
	err    error
	calls  map[string]int
}

type Option interface {
	apply(*Device)
}

type optionFunc func(*Device)

func (f optionFunc) apply(d *Device) { f(d) }

// WithFailure makes the n-th call, counting from one, and all later calls
// of operation op return err. Operations are named after the lower cased
// method names.
func WithFailure(op string, n int, err error) Option {
	return optionFunc(func(d *Device) {
		d.failOp = op
		d.after = n
		d.err = err
	})
}

func New(d accel.Device, opts ...Option) *Device {
	m := &Device{
		Device: d,
		calls:  make(map[string]int),
	}
	for _, o := range opts {
		o.apply(m)
	}
	return m
}

// Calls returns how many times op was called.
func (d *Device) Calls(op string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.calls[op]
}

func (d *Device) call(op string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls[op]++
	if op == d.failOp && d.calls[op] >= d.after {
		return d.err
	}
	return nil
}

func (d *Device) Build(spec accel.KernelSpec) (accel.Kernel, error) {
	if err := d.call("build"); err != nil {
		return nil, err
	}
	return d.Device.Build(spec)
}

func (d *Device) Alloc(n int) (accel.Buffer, error) {
	if err := d.call("alloc"); err != nil {
		return nil, err
	}
	return d.Device.Alloc(n)
}

func (d *Device) Write(b accel.Buffer, src []uint32) error {
	if err := d.call("write"); err != nil {
		return err
	}
	return d.Device.Write(b, src)
}

func (d *Device) Enqueue(k accel.Kernel, out accel.Buffer, region int, batch uint64) error {
	if err := d.call("enqueue"); err != nil {
		return err
	}
	return d.Device.Enqueue(k, out, region, batch)
}

func (d *Device) Finish() error {
	if err := d.call("finish"); err != nil {
		return err
	}
	return d.Device.Finish()
}

func (d *Device) Read(b accel.Buffer, dst []uint32) error {
	if err := d.call("read"); err != nil {
		return err
	}
	return d.Device.Read(b, dst)
}

func (d *Device) Release(b accel.Buffer) error {
	if err := d.call("release"); err != nil {
		return err
	}
	return d.Device.Release(b)
}
