// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package search

import (
	"errors"
	"fmt"

	"github.com/ethersphere/hasher/pkg/keyspace"
)

var (
	// ErrIncomplete is returned by callers that require every target to be
	// recovered when a run ends with some targets unmatched.
	ErrIncomplete = errors.New("not all targets recovered")
	// ErrTooManyWorkers is the cause of a configuration error when more
	// workers are requested than a run supports.
	ErrTooManyWorkers = errors.New("too many workers")
	// ErrDigestSize is the cause of a configuration error when the target
	// digests are not as wide as the keyspace algorithm output.
	ErrDigestSize = errors.New("target digest size does not match algorithm")
)

// ConfigurationError reports degenerate or inconsistent run parameters.
type ConfigurationError = keyspace.ConfigurationError

// WorkerFailure is returned when a worker stops abnormally. The whole run is
// aborted and no summary is produced.
type WorkerFailure struct {
	Worker int
	Span   Span
	Cause  error
}

func (e *WorkerFailure) Error() string {
	return fmt.Sprintf("worker %d on %v: %v", e.Worker, e.Span, e.Cause)
}

func (e *WorkerFailure) Unwrap() error {
	return e.Cause
}

// DeviceError reports a failed accelerator operation. There is no automatic
// fallback to the CPU backend.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}
